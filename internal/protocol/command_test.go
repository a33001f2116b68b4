package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommandString(t *testing.T) {
	cmd := NewCommand("ListCategories").
		With("Locale", "ru_RU").
		With("Catalog", "BM10").
		With("CategoryId", "-1")

	assert.Equal(t, "ListCategories:Locale=ru_RU|Catalog=BM10|CategoryId=-1", cmd.String())
	assert.Equal(t, "ListCategories", cmd.Verb())
}

func TestCommandIsImmutable(t *testing.T) {
	base := NewCommand("FindVehicleByVIN").With("Locale", "ru_RU")
	scoped := base.With("Catalog", "BM10")
	global := base.With("VIN", "WBA")

	assert.Equal(t, "FindVehicleByVIN:Locale=ru_RU", base.String())
	assert.Equal(t, "FindVehicleByVIN:Locale=ru_RU|Catalog=BM10", scoped.String())
	assert.Equal(t, "FindVehicleByVIN:Locale=ru_RU|VIN=WBA", global.String())
}

func TestCommandWithOptionalSkipsBlank(t *testing.T) {
	cmd := NewCommand("ListQuickGroup").
		With("Catalog", "AU1").
		WithOptional("ssd", "  ").
		WithOptional("VehicleId", "42")

	assert.Equal(t, "ListQuickGroup:Catalog=AU1|VehicleId=42", cmd.String())
	_, hasSSD := cmd.Get("ssd")
	assert.False(t, hasSSD)
}

func TestSignGoldenValue(t *testing.T) {
	cmd := "ListCategories:Locale=ru_RU|Catalog=BM10|CategoryId=-1"

	assert.Equal(t, "19D9E81DD94EDAE1804835A801042C95", Sign(cmd, "abc"))
}

func TestSignIsDeterministicAndSensitive(t *testing.T) {
	creds := Credentials{Login: "user", Secret: "abc"}
	commands := []string{
		"ListCategories:Locale=ru_RU|Catalog=BM10|CategoryId=-1",
		"ListCategories:Locale=ru_RU|Catalog=BM10|CategoryId=-2",
		"ListCategories:Locale=ru_RU|Catalog=BM11|CategoryId=-1",
		"ListCategories:Locale=en_US|Catalog=BM10|CategoryId=-1",
		"ListUnits:Locale=ru_RU|Catalog=BM10|CategoryId=-1",
	}

	seen := make(map[string]string)
	for _, c := range commands {
		sig := creds.Sign(c)
		assert.Equal(t, sig, creds.Sign(c), "signature must be deterministic")
		assert.Len(t, sig, 32)
		if prev, dup := seen[sig]; dup {
			t.Fatalf("signature collision between %q and %q", prev, c)
		}
		seen[sig] = c
	}

	assert.Equal(t, "838E65B9F80F4F5AEA2A59D59B36B32C", creds.Sign(commands[1]))
}

func TestCredentialsValidate(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
		field string
	}{
		{name: "blank login", creds: Credentials{Login: " ", Secret: "x"}, field: "login"},
		{name: "blank secret", creds: Credentials{Login: "user"}, field: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.creds.validate("oem")
			var cfgErr *ConfigurationError
			if assert.ErrorAs(t, err, &cfgErr) {
				assert.Equal(t, tt.field, cfgErr.Field)
				assert.Equal(t, "oem", cfgErr.Service)
			}
		})
	}

	assert.NoError(t, Credentials{Login: "user", Secret: "x"}.validate("oem"))
}
