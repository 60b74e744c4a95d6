package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("INVOICEDESK_CONFIG", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:5000", cfg.Server.Addr)
	require.Equal(t, filepath.Join(home, ".local", "share", "invoicedesk", "invoicedesk.db"), cfg.Database.Path)
	require.Equal(t, "smtp.gmail.com", cfg.SMTP.Host)
	require.Equal(t, 465, cfg.SMTP.Port)
	require.Equal(t, 15*time.Second, cfg.SMTP.Timeout)
	require.Equal(t, "fpdf", cfg.PDF.Engine)
	require.Equal(t, "₹", cfg.Console.CurrencySymbol)
	require.Equal(t, 3*time.Second, cfg.Console.ToastDuration())
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "custom.toml")
	body := `
[server]
addr = "0.0.0.0:9000"

[pdf]
engine = "chrome"
chrome_url = "ws://chrome:9222"

[console]
toast_seconds = 5
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("INVOICEDESK_CONFIG", path)
	t.Setenv("INVOICEDESK_SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	require.Equal(t, "chrome", cfg.PDF.Engine)
	require.Equal(t, "ws://chrome:9222", cfg.PDF.ChromeURL)
	require.Equal(t, 5*time.Second, cfg.Console.ToastDuration())
	require.Equal(t, 2525, cfg.SMTP.Port)
}

func TestLoadRejectsUnknownEngine(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("INVOICEDESK_CONFIG", "")
	t.Setenv("INVOICEDESK_PDF_ENGINE", "latex")

	_, err := Load()
	require.ErrorContains(t, err, "pdf.engine")
}

func TestSaveRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(home, "saved.toml")
	t.Setenv("INVOICEDESK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	cfg.Server.Addr = "127.0.0.1:7777"
	cfg.Console.CurrencySymbol = "$"
	require.NoError(t, Save(cfg))

	again, err := Load()
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:7777", again.Server.Addr)
	require.Equal(t, "$", again.Console.CurrencySymbol)
	require.Equal(t, cfg.SMTP.Timeout, again.SMTP.Timeout)
}
