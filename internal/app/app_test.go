package app

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/agbru/bignum/internal/cli"
	apperrors "github.com/agbru/bignum/internal/errors"
)

func TestHasVersionFlag(t *testing.T) {
	cases := []struct {
		args []string
		want bool
	}{
		{[]string{"bignum", "--version"}, true},
		{[]string{"bignum", "-version"}, true},
		{[]string{"bignum", "add", "-V"}, true},
		{[]string{"bignum", "add", "1", "2"}, false},
		{nil, false},
	}
	for _, tc := range cases {
		if got := HasVersionFlag(tc.args); got != tc.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tc.args, got, tc.want)
		}
	}
}

func TestPrintVersion(t *testing.T) {
	var sb strings.Builder
	PrintVersion(&sb)
	out := sb.String()
	for _, want := range []string{"bignum", "Commit:", "Go version:", "OS/Arch:"} {
		if !strings.Contains(out, want) {
			t.Errorf("version output missing %q:\n%s", want, out)
		}
	}
}

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version != Version || info.Commit != Commit {
		t.Errorf("version info = %+v", info)
	}
	if info.GoVersion == "" || info.OS == "" || info.Arch == "" {
		t.Errorf("runtime fields missing: %+v", info)
	}
}

func TestNewParsesArguments(t *testing.T) {
	application, err := New([]string{"bignum", "-base", "16", "add", "ff", "1"}, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if application.Config.Op != "add" || application.Config.Base != 16 {
		t.Errorf("config = %+v", application.Config)
	}
}

func TestNewRejectsInvalidArguments(t *testing.T) {
	if _, err := New([]string{"bignum", "frobnicate", "1"}, io.Discard); err == nil {
		t.Error("New accepted an unknown operation")
	}
}

func TestNewHelpFlag(t *testing.T) {
	_, err := New([]string{"bignum", "-h"}, io.Discard)
	if err == nil {
		t.Fatal("New(-h) returned no error")
	}
	if !IsHelpError(err) {
		t.Errorf("IsHelpError = false for %v", err)
	}
}

func TestRunQuiet(t *testing.T) {
	application, err := New([]string{"bignum", "-q", "add", "20", "22"}, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var sb strings.Builder
	if code := application.Run(context.Background(), &sb); code != apperrors.ExitSuccess {
		t.Fatalf("Run exit code = %d", code)
	}
	if sb.String() != "42\n" {
		t.Errorf("quiet output = %q, want %q", sb.String(), "42\n")
	}
}

func TestRunJSON(t *testing.T) {
	application, err := New([]string{"bignum", "-json", "modpow", "4", "13", "497"}, io.Discard)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var sb strings.Builder
	if code := application.Run(context.Background(), &sb); code != apperrors.ExitSuccess {
		t.Fatalf("Run exit code = %d", code)
	}
	var report cli.ResultReport
	if err := json.Unmarshal([]byte(sb.String()), &report); err != nil {
		t.Fatalf("invalid JSON output: %v\n%s", err, sb.String())
	}
	if report.Operation != "modpow" || report.Value != "445" {
		t.Errorf("report = %+v", report)
	}
}

func TestRunEvaluationError(t *testing.T) {
	var errOut strings.Builder
	application, err := New([]string{"bignum", "-q", "quo", "1", "0"}, &errOut)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	code := application.Run(context.Background(), io.Discard)
	if code != apperrors.ExitErrorGeneric {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorGeneric)
	}
	if !strings.Contains(errOut.String(), "Error:") {
		t.Errorf("error output = %q", errOut.String())
	}
}

func TestShortOperand(t *testing.T) {
	if got := shortOperand("12345"); got != "12345" {
		t.Errorf("shortOperand = %q", got)
	}
	long := strings.Repeat("1", 300)
	got := shortOperand(long)
	if len(got) != 2*cli.DisplayEdges+3 || !strings.Contains(got, "...") {
		t.Errorf("shortOperand(long) = %q", got)
	}
}
