package cli

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spf13/pflag"

	"github.com/danieljhkim/stripdb/internal/dumper"
)

func testFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("users", false, "")
	fs.BoolP("verbose", "v", false, "")
	fs.String("prefix", "", "")
	fs.Int("port", 0, "")
	return fs
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		name           string
		args           []string
		wantKnown      []string
		wantPositional []string
		wantExtra      []dumper.Flag
	}{
		{
			name:           "known flags and file",
			args:           []string{"backup.sql", "--users", "-v"},
			wantKnown:      []string{"--users", "-v"},
			wantPositional: []string{"backup.sql"},
		},
		{
			name:      "value flag takes next argument",
			args:      []string{"--prefix", "shop_", "--port=3307"},
			wantKnown: []string{"--prefix", "shop_", "--port=3307"},
		},
		{
			name:      "unknown long flags are forwarded",
			args:      []string{"--users", "--skip-lock-tables", "--default-character-set=utf8mb4"},
			wantKnown: []string{"--users"},
			wantExtra: []dumper.Flag{
				{Name: "skip-lock-tables"},
				{Name: "default-character-set", Value: "utf8mb4", HasValue: true},
			},
		},
		{
			name:           "everything after double dash is forwarded",
			args:           []string{"out.sql", "--", "--users", "--prefix=x"},
			wantPositional: []string{"out.sql"},
			wantExtra: []dumper.Flag{
				{Name: "users"},
				{Name: "prefix", Value: "x", HasValue: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			known, positional, extra, err := splitArgs(testFlagSet(), tt.args)
			if err != nil {
				t.Fatalf("splitArgs() error = %v", err)
			}
			if !reflect.DeepEqual(known, tt.wantKnown) {
				t.Errorf("known = %v, want %v", known, tt.wantKnown)
			}
			if !reflect.DeepEqual(positional, tt.wantPositional) {
				t.Errorf("positional = %v, want %v", positional, tt.wantPositional)
			}
			if !reflect.DeepEqual(extra, tt.wantExtra) {
				t.Errorf("extra = %v, want %v", extra, tt.wantExtra)
			}
		})
	}
}

func TestSplitArgs_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown shorthand", []string{"-x"}},
		{"bare value after double dash", []string{"--", "value"}},
		{"empty flag name", []string{"--=x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, _, err := splitArgs(testFlagSet(), tt.args); err == nil {
				t.Errorf("splitArgs(%v) expected error", tt.args)
			}
		})
	}
}

func TestSplitArgs_UnknownShorthand(t *testing.T) {
	_, _, _, err := splitArgs(testFlagSet(), []string{"-p"})
	if !errors.Is(err, ErrUnknownShorthand) {
		t.Errorf("splitArgs() error = %v, want ErrUnknownShorthand", err)
	}
}

func TestParseExtraArgs(t *testing.T) {
	flags, err := parseExtraArgs([]string{"--skip-comments", "--max_allowed_packet=512M"})
	if err != nil {
		t.Fatalf("parseExtraArgs() error = %v", err)
	}
	want := []dumper.Flag{
		{Name: "skip-comments"},
		{Name: "max_allowed_packet", Value: "512M", HasValue: true},
	}
	if !reflect.DeepEqual(flags, want) {
		t.Errorf("parseExtraArgs() = %v, want %v", flags, want)
	}

	if _, err := parseExtraArgs([]string{"-q"}); err == nil {
		t.Error("parseExtraArgs() expected error for a short option")
	}
}

func TestSplitArgs_ReservedFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"row filter", []string{"--users", "--where=1=1"}},
		{"table list", []string{"--tables=wp_posts"}},
		{"row filter after double dash", []string{"--", "--where=ID>0"}},
		{"underscore spelling", []string{"--all_databases"}},
		{"abbreviated row filter", []string{"--wh=1=1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, err := splitArgs(testFlagSet(), tt.args)
			if !errors.Is(err, dumper.ErrReservedFlag) {
				t.Errorf("splitArgs(%v) error = %v, want ErrReservedFlag", tt.args, err)
			}
		})
	}
}

func TestParseExtraArgs_ReservedFlags(t *testing.T) {
	_, err := parseExtraArgs([]string{"--skip-comments", "--where=1=1"})
	if !errors.Is(err, dumper.ErrReservedFlag) {
		t.Errorf("parseExtraArgs() error = %v, want ErrReservedFlag", err)
	}
}
