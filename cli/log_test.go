package cli

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ardnew/stencil/log"
)

func TestLogConfig_Scan(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		want      logConfig
		wantLevel log.Level
	}{
		{
			name:      "separate values",
			args:      []string{"render", "--log-level", "trace", "--log-format", "json", "page.tmpl"},
			want:      logConfig{Level: "trace", Format: "json", Pretty: true},
			wantLevel: log.LevelTrace,
		},
		{
			name:      "assigned values",
			args:      []string{"--log-level=warn", "--log-time-layout=none", "--log-caller"},
			want:      logConfig{Level: "warn", TimeLayout: "none", Caller: true, Pretty: true},
			wantLevel: log.LevelWarn,
		},
		{
			name:      "negated booleans",
			args:      []string{"--no-log-pretty", "--no-log-caller=false"},
			want:      logConfig{Caller: true},
			wantLevel: log.DefaultLevel,
		},
		{
			name:      "missing value",
			args:      []string{"--log-level", "--log-pretty=false"},
			want:      logConfig{},
			wantLevel: log.DefaultLevel,
		},
		{
			name:      "after terminator",
			args:      []string{"--", "--log-level=error"},
			want:      logConfig{Pretty: true},
			wantLevel: log.DefaultLevel,
		},
		{
			name:      "unrelated and invalid",
			args:      []string{"--logs", "--no-log-level=debug", "--log-caller=maybe", "-s", "delimiter"},
			want:      logConfig{Pretty: true},
			wantLevel: log.DefaultLevel,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			saved := log.Default()
			t.Cleanup(func() { log.SetDefault(saved) })

			log.SetDefault(log.Make(nil))

			f := logConfig{Pretty: true}
			f.scan(tt.args)

			if diff := cmp.Diff(tt.want, f); diff != "" {
				t.Errorf("scan() mismatch (-want +got):\n%s", diff)
			}

			if got := log.Default().Level(); got != tt.wantLevel {
				t.Errorf("logger level = %v, want %v", got, tt.wantLevel)
			}
		})
	}
}

func TestLogConfig_Vars(t *testing.T) {
	var f logConfig

	vars := f.vars()

	want := map[string]string{
		"logLevel":   "info",
		"logLevels":  "trace,debug,info,warn,error",
		"logFormat":  "text",
		"logFormats": "text,json",
	}

	for key, value := range want {
		if vars[key] != value {
			t.Errorf("vars[%q] = %q, want %q", key, vars[key], value)
		}
	}
}
