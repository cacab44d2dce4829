package integration

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/danieljhkim/stripdb/internal/compat"
	"github.com/danieljhkim/stripdb/internal/engine"
	"github.com/danieljhkim/stripdb/internal/hash"
)

const wooActive = `a:1:{i:0;s:27:"woocommerce/woocommerce.php";}`

var wooTables = []string{
	"wp_options", "wp_posts", "wp_postmeta",
	"wp_users", "wp_usermeta",
	"wp_wc_orders", "wp_wc_orders_meta", "wp_wc_order_items", "wp_wc_customer_lookup",
}

func TestStrip_FullCycle(t *testing.T) {
	eng, mock, dir := setup(t, wooTables, wooActive)
	ctx := context.Background()

	result, err := eng.Strip(ctx, &engine.StripRequest{
		Basename:   filepath.Join(dir, "backup.sql"),
		Categories: []compat.Category{compat.Users, compat.Orders},
		Prefix:     "wp_",
	})
	if err != nil {
		t.Fatalf("Strip() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet database expectations: %v", err)
	}

	data := readFile(t, filepath.Join(dir, "backup-1.sql"))
	structure := readFile(t, filepath.Join(dir, "backup-2.sql"))

	// First export: full rows of everything not redacted.
	for _, want := range []string{"-- arg: wp_options", "-- arg: wp_wc_customer_lookup", "-- arg: wordpress", "-- arg: --single-transaction"} {
		if !strings.Contains(data, want) {
			t.Errorf("data export missing %q:\n%s", want, data)
		}
	}
	if strings.Contains(data, "--where") || strings.Contains(data, "-- arg: wp_users") {
		t.Errorf("data export must not filter rows or include redacted tables:\n%s", data)
	}

	// Second export: structure of redacted tables only.
	for _, want := range []string{"-- arg: --where=1=0", "-- arg: wp_users", "-- arg: wp_wc_orders_meta"} {
		if !strings.Contains(structure, want) {
			t.Errorf("structure export missing %q:\n%s", want, structure)
		}
	}
	if strings.Contains(structure, "-- arg: wp_options") {
		t.Errorf("structure export includes a kept table:\n%s", structure)
	}

	// The password never appears on the command line.
	if strings.Contains(data, "secret") || !strings.Contains(data, "password via environment") {
		t.Errorf("password handling wrong:\n%s", data)
	}

	sum, err := hash.NewSHA256Hasher().HashFile(filepath.Join(dir, "backup-1.sql"))
	if err != nil {
		t.Fatalf("HashFile() error = %v", err)
	}
	if result.DataChecksum != sum {
		t.Errorf("DataChecksum = %s, want %s", result.DataChecksum, sum)
	}

	// No partial files are left behind.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".partial") {
			t.Errorf("leftover partial file %s", entry.Name())
		}
	}
}

func TestStrip_Gzip(t *testing.T) {
	eng, _, dir := setup(t, wooTables, wooActive)

	_, err := eng.Strip(context.Background(), &engine.StripRequest{
		Basename:   filepath.Join(dir, "site.sql.gz"),
		Categories: []compat.Category{compat.Customers},
		Prefix:     "wp_",
	})
	if err != nil {
		t.Fatalf("Strip() error = %v", err)
	}

	f, err := os.Open(filepath.Join(dir, "site-2.sql.gz"))
	if err != nil {
		t.Fatalf("failed to open structure export: %v", err)
	}
	defer f.Close()

	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("structure export is not gzip: %v", err)
	}
	content, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("failed to decompress: %v", err)
	}
	if !strings.Contains(string(content), "-- arg: wp_wc_customer_lookup") {
		t.Errorf("unexpected structure export:\n%s", content)
	}
}

func TestStrip_InactivePluginTablesKept(t *testing.T) {
	eng, _, dir := setup(t, wooTables, `a:0:{}`)

	result, err := eng.Strip(context.Background(), &engine.StripRequest{
		Basename:   filepath.Join(dir, "dump"),
		Categories: []compat.Category{compat.Users, compat.Orders},
		Prefix:     "wp_",
	})
	if err != nil {
		t.Fatalf("Strip() error = %v", err)
	}

	if len(result.Plan.Inactive) == 0 {
		t.Error("expected WooCommerce to be reported inactive")
	}
	data := readFile(t, filepath.Join(dir, "dump-1.sql"))
	if !strings.Contains(data, "-- arg: wp_wc_orders") {
		t.Errorf("orders of an inactive plugin should be exported with data:\n%s", data)
	}
}

func TestStrip_SecondExportFailureRemovesFirst(t *testing.T) {
	t.Setenv("FAIL_ON_WHERE", "1")
	eng, _, dir := setup(t, wooTables, wooActive)

	_, err := eng.Strip(context.Background(), &engine.StripRequest{
		Basename:   filepath.Join(dir, "backup.sql"),
		Categories: []compat.Category{compat.Users, compat.Orders},
		Prefix:     "wp_",
	})
	if !errors.Is(err, engine.ErrExportFailed) {
		t.Fatalf("Strip() error = %v, want ErrExportFailed", err)
	}
	if !strings.Contains(err.Error(), "access denied") {
		t.Errorf("error should carry mysqldump stderr: %v", err)
	}

	for _, name := range []string{"backup-1.sql", "backup-2.sql", "backup-1.sql.partial", "backup-2.sql.partial"} {
		if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
			t.Errorf("%s should not exist after a failed run", name)
		}
	}
}
