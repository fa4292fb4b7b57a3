package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunedeck/tunedeck/internal/infra/config"
)

func TestNewFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StoreConfig
		want    any
		wantErr bool
	}{
		{
			name: "http backend",
			cfg: config.StoreConfig{
				Backend: "http",
				HTTP:    config.HTTPStoreConfig{BaseURL: "http://store.example.com", TimeoutSec: 10},
			},
			want: &HTTPStore{},
		},
		{
			name: "sqlite backend",
			cfg: config.StoreConfig{
				Backend: "sqlite",
				SQLite:  config.SQLiteStoreConfig{Path: ":memory:"},
			},
			want: &SQLiteStore{},
		},
		{
			name:    "http backend without base url",
			cfg:     config.StoreConfig{Backend: "http"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     config.StoreConfig{Backend: "carrier-pigeon"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewFromConfig(&config.Config{Store: tt.cfg})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}
}
