package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfig = `
[server]
http_port = 8083
read_timeout = 15
write_timeout = 15

[database]
host = "localhost"
port = 5432
user = "launchservice"
password = "secret"
dbname = "launchservice"
sslmode = "disable"

[logs]
file = "logs/launchservice.log"
level = "info"

[metrics]
enabled = true
service_name = "tlp-launchservice"
path = "/metrics"

[booking]
capacity = 3
non_premium_cap = 1
allow_non_premium_overflow = false
window_days = 30
horizon_days = 60

[product_service]
url = "http://localhost:8081"
timeout = 5
`

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, 8083, cfg.Server.HTTPPort)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 3, cfg.Booking.Capacity)
	assert.Equal(t, 1, cfg.Booking.NonPremiumCap)
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, "http://localhost:8081", cfg.ProductService.URL)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("does-not-exist.toml")
	assert.Error(t, err)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  string
		wantErr string
	}{
		{
			name:    "missing port",
			mutate:  "[server]\n[database]\nhost = \"localhost\"\n",
			wantErr: "http_port",
		},
		{
			name:    "missing database host",
			mutate:  "[server]\nhttp_port = 8083\n[database]\n",
			wantErr: "database.host",
		},
		{
			name:    "quota exceeds capacity",
			mutate:  "[server]\nhttp_port = 8083\n[database]\nhost = \"localhost\"\n[booking]\ncapacity = 2\nnon_premium_cap = 5\n",
			wantErr: "non_premium_cap",
		},
		{
			name:    "horizon too large",
			mutate:  "[server]\nhttp_port = 8083\n[database]\nhost = \"localhost\"\n[booking]\nhorizon_days = 1000\n",
			wantErr: "horizon_days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.mutate))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", DBName: "launch", SSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=launch sslmode=disable", d.DSN())
}

func TestBookingConfig_Policy_Defaults(t *testing.T) {
	p := BookingConfig{}.Policy()
	assert.Equal(t, 3, p.Capacity)
	assert.Equal(t, 1, p.NonPremiumCap)
	assert.Equal(t, 30, p.WindowDays)
	assert.Equal(t, 60, p.HorizonDays)
	assert.False(t, p.AllowNonPremiumOverflow)
}
