package config

import (
	"testing"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string {
		return values[key]
	}
}

func TestLoadServerConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    ServerConfig
		wantErr bool
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: ServerConfig{Port: "3000", StaticDir: "public", StubBalance: 100000},
		},
		{
			name: "overrides",
			env:  map[string]string{"PORT": "4000", "STATIC_DIR": "site", "STUB_BALANCE": "250.00"},
			want: ServerConfig{Port: "4000", StaticDir: "site", StubBalance: 25000},
		},
		{
			name:    "invalid balance",
			env:     map[string]string{"STUB_BALANCE": "lots"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LoadServerConfig(envMap(tt.env))
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadServerConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("LoadServerConfig() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
