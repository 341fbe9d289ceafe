package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/nusatech-dev/backoffice-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates a connection to the test PostgreSQL database.
// It uses environment variables or falls back to docker-compose defaults.
func SetupTestDB(t *testing.T) *gorm.DB {
	host := getEnvOrDefault("DATABASE_HOST", "localhost")
	port := getEnvOrDefault("DATABASE_PORT", "5432")
	user := getEnvOrDefault("DATABASE_USER", "backoffice_user")
	password := getEnvOrDefault("DATABASE_PASSWORD", "backoffice_password")
	dbname := getEnvOrDefault("DATABASE_NAME", "backoffice")

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		host, port, user, password, dbname)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "Failed to connect to test database. Ensure PostgreSQL is running.")

	err = db.AutoMigrate(
		&domain.Entity{},
		&domain.Site{},
		&domain.Lead{},
		&domain.Quotation{},
		&domain.QuotationSite{},
		&domain.Pks{},
		&domain.PksSite{},
		&domain.Spk{},
		&domain.SpkSite{},
		&domain.Customer{},
		&domain.CustomerActivity{},
		&domain.NumberSequence{},
	)
	require.NoError(t, err)

	return db
}

// CleanupTestData deletes test rows from all tables, children before parents.
func CleanupTestData(t *testing.T, db *gorm.DB) {
	tables := []string{
		"customer_activities",
		"spk_sites",
		"spk",
		"pks_sites",
		"quotation_sites",
		"customers",
		"pks",
		"quotations",
		"leads",
		"sites",
		"number_sequences",
	}

	for _, table := range tables {
		err := db.Exec(fmt.Sprintf("DELETE FROM %s WHERE TRUE", table)).Error
		if err != nil {
			t.Logf("Note: Could not clean table %s: %v", table, err)
		}
	}
}

// CreateTestLead creates a lead with a unique nomor and returns it.
func CreateTestLead(t *testing.T, db *gorm.DB, companyName string) *domain.Lead {
	lead := &domain.Lead{
		Nomor:        uniqueLeadNomor(),
		CompanyName:  companyName,
		NeedCategory: domain.NeedInternet,
		Status:       domain.LeadStatusNew,
	}
	err := db.Create(lead).Error
	require.NoError(t, err)
	return lead
}

// CreateTestSite creates a site and returns it.
func CreateTestSite(t *testing.T, db *gorm.DB, name string) *domain.Site {
	site := &domain.Site{
		Name: name,
		City: "Jakarta",
	}
	err := db.Create(site).Error
	require.NoError(t, err)
	return site
}

// uniqueLeadNomor derives a distinct 5-character code from the clock so that
// concurrent test runs never collide on the unique index.
func uniqueLeadNomor() string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXY"
	n := time.Now().UnixNano()
	b := make([]byte, 5)
	for i := 4; i >= 0; i-- {
		b[i] = alphabet[n%int64(len(alphabet))]
		n /= int64(len(alphabet))
	}
	return string(b)
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
