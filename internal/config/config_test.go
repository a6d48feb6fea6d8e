package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode(viper.New())
	if err != nil {
		t.Fatalf("decode defaults: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("unexpected port: %s", cfg.Server.Port)
	}
	if cfg.Cart.TaxRate != 0.10 || cfg.Cart.ShippingFee != 10 {
		t.Fatalf("unexpected cart pricing: %+v", cfg.Cart)
	}
	if cfg.Catalog.Path != "./data/wines.json" {
		t.Fatalf("unexpected catalog path: %s", cfg.Catalog.Path)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Fatalf("unexpected metrics path: %s", cfg.Metrics.Path)
	}
}

func TestDecodeYAMLAndEnvOverride(t *testing.T) {
	t.Setenv("CART_SHIPPING_FEE", "12.5")

	v := viper.New()
	v.SetConfigType("yaml")
	raw := `
catalog:
  path: /srv/wines.json
  reload_cron: "@every 10m"
cart:
  tax_rate: -1
admin:
  operators:
    - name: " ops "
      token: secret
      roles: [catalog_admin]
`
	if err := v.ReadConfig(strings.NewReader(raw)); err != nil {
		t.Fatalf("read yaml: %v", err)
	}
	cfg, err := Decode(v)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Catalog.Path != "/srv/wines.json" || cfg.Catalog.ReloadCron != "@every 10m" {
		t.Fatalf("unexpected catalog config: %+v", cfg.Catalog)
	}
	if cfg.Cart.TaxRate != 0 {
		t.Fatalf("negative tax rate should be clamped, got %v", cfg.Cart.TaxRate)
	}
	if cfg.Cart.ShippingFee != 12.5 {
		t.Fatalf("env override not applied: %v", cfg.Cart.ShippingFee)
	}
	if len(cfg.Admin.Operators) != 1 || cfg.Admin.Operators[0].Name != "ops" {
		t.Fatalf("unexpected operators: %+v", cfg.Admin.Operators)
	}
}
