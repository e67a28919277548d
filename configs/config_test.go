package configs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/QuangMinh07/BE-NOM-sub000/entity"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DBDriver != "sqlite" || cfg.JWTTTL != 24*time.Hour || cfg.OrderAutoCancelAfter != 15*time.Minute {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.RateLimitBurst != 40 || cfg.MinIO.Bucket != "nom" {
		t.Fatalf("limits = %d bucket = %q", cfg.RateLimitBurst, cfg.MinIO.Bucket)
	}
	if cfg.StoreLocation == nil || cfg.StoreLocation.String() != "Asia/Ho_Chi_Minh" {
		t.Fatalf("store location = %v", cfg.StoreLocation)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("cors origins = %v", cfg.CORSOrigins)
	}
}

func TestLoadConfigLists(t *testing.T) {
	t.Setenv("CORS_ORIGINS", " https://a.nom.test, ,https://b.nom.test ")
	t.Setenv("STORE_TIMEZONE", "UTC")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://b.nom.test" {
		t.Fatalf("cors origins = %q", cfg.CORSOrigins)
	}
	if cfg.StoreLocation != time.UTC {
		t.Fatalf("store location = %v", cfg.StoreLocation)
	}

	t.Setenv("STORE_TIMEZONE", "Mars/Olympus")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("unknown zone accepted")
	}
}

func TestLoadConfigEnvWins(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nom.yaml")
	if err := os.WriteFile(path, []byte("PORT: \"7000\"\nSMTP_USERNAME: mailer@nom.test\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9000")
	t.Setenv("ORDER_AUTO_CANCEL_AFTER", "5m")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("port = %q", cfg.Port)
	}
	if cfg.OrderAutoCancelAfter != 5*time.Minute {
		t.Fatalf("auto cancel = %v", cfg.OrderAutoCancelAfter)
	}
	if cfg.SMTP.From != "mailer@nom.test" {
		t.Fatalf("smtp from = %q", cfg.SMTP.From)
	}
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	db, err := ConnectDB(&Config{DBDriver: "sqlite", DBSource: filepath.Join(t.TempDir(), "seed.db")})
	if err != nil {
		t.Fatal(err)
	}
	if err := Migrate(db); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := SeedAdmin(db, "root@nom.test", "secret"); err != nil {
			t.Fatal(err)
		}
	}
	var count int64
	if err := db.Model(&entity.User{}).Where("role = ?", entity.RoleAdmin).Count(&count).Error; err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("admins = %d", count)
	}
	if err := SeedAdmin(db, "", ""); err != nil {
		t.Fatal(err)
	}
}
