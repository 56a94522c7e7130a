package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "client.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"database_path": "/var/lib/codehunt.db", "online_check_interval": "10s"}`), 0o600))

	tests := []struct {
		name string
		args []string
		want *Config
	}{
		{name: "defaults", want: Default()},
		{
			name: "flags",
			args: []string{"-a", "127.0.0.1:9090", "-f", "/tmp/c.db", "-i", "10", "-redirect", "https://app/reset"},
			want: &Config{ServerEndpointAddr: "127.0.0.1:9090", DatabasePath: "/tmp/c.db", OnlineCheckInterval: 10 * time.Second, ResetRedirectURL: "https://app/reset"},
		},
		{
			name: "file keeps omitted keys",
			args: []string{"-config", file},
			want: &Config{ServerEndpointAddr: "127.0.0.1:50051", DatabasePath: "/var/lib/codehunt.db", OnlineCheckInterval: 10 * time.Second, ResetRedirectURL: "codehunt://reset-password"},
		},
		{
			name: "flags beat the file",
			args: []string{"-c", file, "-f", "other.db", "-x", "ignored"},
			want: &Config{ServerEndpointAddr: "127.0.0.1:50051", DatabasePath: "other.db", OnlineCheckInterval: 10 * time.Second, ResetRedirectURL: "codehunt://reset-password"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.args)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"online_check_interval": true}`), 0o600))

	for name, args := range map[string][]string{
		"missing file":   {"-c", filepath.Join(dir, "nope.json")},
		"bad duration":   {"-c", bad},
		"bad interval":   {"-i", "abc"},
		"zero interval":  {"-i", "0"},
		"empty server":   {"-a", ""},
		"empty database": {"-f", ""},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(args)
			assert.Error(t, err)
		})
	}
}
