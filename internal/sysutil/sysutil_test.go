package sysutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLogLevel(t *testing.T) {
	orig := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(orig) })

	cases := map[string]zerolog.Level{
		"debug":     zerolog.DebugLevel,
		"  DeBuG  ": zerolog.DebugLevel,
		"info":      zerolog.InfoLevel,
		"":          zerolog.InfoLevel,
		"warning":   zerolog.WarnLevel,
		"error":     zerolog.ErrorLevel,
		"fatal":     zerolog.FatalLevel,
		"panic":     zerolog.PanicLevel,
		"verbose":   zerolog.InfoLevel,
	}
	for in, want := range cases {
		SetLogLevel(in)
		if got := zerolog.GlobalLevel(); got != want {
			t.Fatalf("SetLogLevel(%q) -> %v; want %v", in, got, want)
		}
	}
}

func TestNewLogger_JSONAndPretty(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "go-erp-backend", false)
	l.Info().Msg("listening")
	out := buf.String()
	if !strings.Contains(out, `"service":"go-erp-backend"`) || !strings.Contains(out, `"message":"listening"`) {
		t.Fatalf("unexpected json log: %s", out)
	}

	buf.Reset()
	l = NewLogger(&buf, "go-erp-backend", true)
	l.Info().Msg("listening")
	if strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "listening") {
		t.Fatalf("expected console output, got: %s", buf.String())
	}
}

func TestFlags(t *testing.T) {
	for _, v := range []string{"1", "TRUE", " yes ", "Y", "on"} {
		if !IsTruthy(v) || IsFalsy(v) {
			t.Fatalf("%q should be truthy", v)
		}
	}
	for _, v := range []string{"0", "false", "No", "off", "n"} {
		if IsTruthy(v) || !IsFalsy(v) {
			t.Fatalf("%q should be falsy", v)
		}
	}
	for _, v := range []string{"", "  ", "maybe"} {
		if IsTruthy(v) || IsFalsy(v) {
			t.Fatalf("%q should be neither", v)
		}
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty(); got != "" {
		t.Fatalf("FirstNonEmpty() = %q", got)
	}
	if got := FirstNonEmpty(" ", "\t"); got != "" {
		t.Fatalf("FirstNonEmpty(blanks) = %q", got)
	}
	if got := FirstNonEmpty("", "  v1.2.0 ", "dev"); got != "  v1.2.0 " {
		t.Fatalf("FirstNonEmpty picked %q", got)
	}
}
