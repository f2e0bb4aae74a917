package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"tradelaw.us/web/internal/seo"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Site      SiteConfig      `yaml:"site"`
	Content   ContentConfig   `yaml:"content"`
	Publish   PublishConfig   `yaml:"publish"`
	Analytics AnalyticsConfig `yaml:"analytics"`
	Dev       bool            `yaml:"dev" env:"TRADELAW_DEV" env-default:"false"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr         string        `yaml:"addr" env:"TRADELAW_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"TRADELAW_READ_TIMEOUT" env-default:"15s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"TRADELAW_WRITE_TIMEOUT" env-default:"15s"`
	IdleTimeout  time.Duration `yaml:"idle_timeout" env:"TRADELAW_IDLE_TIMEOUT" env-default:"60s"`
	TemplatesDir string        `yaml:"templates_dir" env:"TRADELAW_TEMPLATES_DIR" env-default:"internal/render/templates"`
	PublicDir    string        `yaml:"public_dir" env:"TRADELAW_PUBLIC_DIR" env-default:"public"`
}

// SiteConfig is the firm identity used by schema builders and page content.
type SiteConfig struct {
	BaseURL      string   `yaml:"base_url" env:"TRADELAW_BASE_URL" env-default:"https://www.harbortradelaw.com"`
	Name         string   `yaml:"name" env:"TRADELAW_SITE_NAME" env-default:"Harbor Trade Law"`
	PhoneDisplay string   `yaml:"phone_display" env:"TRADELAW_PHONE_DISPLAY" env-default:"(305) 555-0148"`
	PhoneTel     string   `yaml:"phone_tel" env:"TRADELAW_PHONE_TEL" env-default:"+13055550148"`
	Email        string   `yaml:"email" env:"TRADELAW_EMAIL" env-default:"intake@harbortradelaw.com"`
	Street       string   `yaml:"street" env:"TRADELAW_STREET" env-default:"200 S Biscayne Blvd, Suite 2800"`
	Locality     string   `yaml:"locality" env:"TRADELAW_LOCALITY" env-default:"Miami"`
	Region       string   `yaml:"region" env:"TRADELAW_REGION" env-default:"FL"`
	PostalCode   string   `yaml:"postal_code" env:"TRADELAW_POSTAL_CODE" env-default:"33131"`
	Country      string   `yaml:"country" env:"TRADELAW_COUNTRY" env-default:"US"`
	Latitude     float64  `yaml:"latitude" env:"TRADELAW_LATITUDE" env-default:"25.7717"`
	Longitude    float64  `yaml:"longitude" env:"TRADELAW_LONGITUDE" env-default:"-80.1867"`
	OpeningHours []string `yaml:"opening_hours" env:"TRADELAW_OPENING_HOURS" env-separator:";" env-default:"Mo-Fr 08:30-18:00"`
	AreaServed   []string `yaml:"area_served" env:"TRADELAW_AREA_SERVED" env-separator:";" env-default:"United States"`
	Logo         string   `yaml:"logo" env:"TRADELAW_LOGO" env-default:"/assets/logo.png"`
	OGImage      string   `yaml:"og_image" env:"TRADELAW_OG_IMAGE" env-default:"/assets/og-default.png"`
	PriceRange   string   `yaml:"price_range" env:"TRADELAW_PRICE_RANGE" env-default:"$$$"`
}

// ContentConfig locates landing page sources.
type ContentConfig struct {
	// Dir overrides the embedded library when set.
	Dir string `yaml:"dir" env:"TRADELAW_CONTENT_DIR"`
}

// PublishConfig controls where the static export is written.
type PublishConfig struct {
	OutDir       string `yaml:"out_dir" env:"TRADELAW_OUT_DIR" env-default:"dist"`
	Bucket       string `yaml:"bucket" env:"TRADELAW_PUBLISH_BUCKET"`
	Prefix       string `yaml:"prefix" env:"TRADELAW_PUBLISH_PREFIX"`
	CacheControl string `yaml:"cache_control" env:"TRADELAW_PUBLISH_CACHE_CONTROL" env-default:"public, max-age=300"`

	// Endpoint points the storage client at an emulator such as fake-gcs-server.
	Endpoint string `yaml:"endpoint" env:"TRADELAW_STORAGE_ENDPOINT"`
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `yaml:"ga4_measurement_id" env:"TRADELAW_GA_MEASUREMENT_ID"`
	GTMContainerID   string `yaml:"gtm_container_id" env:"TRADELAW_GTM_CONTAINER_ID"`
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Load reads the optional YAML file at path, then applies environment overrides and defaults.
// A missing file is not an error; an empty path skips the file entirely.
func Load(path string) (Config, error) {
	var cfg Config
	path = strings.TrimSpace(path)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := cleanenv.ReadConfig(path, &cfg); err != nil {
				return Config{}, fmt.Errorf("read config %s: %w", path, err)
			}
			return finalize(cfg)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("stat config %s: %w", path, err)
		}
	}
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read env: %w", err)
	}
	return finalize(cfg)
}

func finalize(cfg Config) (Config, error) {
	cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var fields []string
	if u, err := url.Parse(c.Site.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		fields = append(fields, "Site.BaseURL")
	}
	if strings.TrimSpace(c.Site.Name) == "" {
		fields = append(fields, "Site.Name")
	}
	if strings.TrimSpace(c.Site.PhoneTel) == "" {
		fields = append(fields, "Site.PhoneTel")
	}
	if strings.TrimSpace(c.Server.Addr) == "" {
		fields = append(fields, "Server.Addr")
	}
	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}

// Absolute resolves a site-relative path such as "/assets/logo.png" against BaseURL.
// Absolute URLs are returned unchanged.
func (s SiteConfig) Absolute(p string) string {
	if p == "" || strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") {
		return p
	}
	return seo.CanonicalURL(s.BaseURL, p)
}

// Business converts the site identity into the LocalBusiness schema input.
func (s SiteConfig) Business() seo.Business {
	return seo.Business{
		Name:       s.Name,
		URL:        seo.CanonicalURL(s.BaseURL, ""),
		Telephone:  s.PhoneTel,
		Email:      s.Email,
		Logo:       s.Absolute(s.Logo),
		Image:      s.Absolute(s.OGImage),
		PriceRange: s.PriceRange,
		Address: seo.Address{
			Street:     s.Street,
			Locality:   s.Locality,
			Region:     s.Region,
			PostalCode: s.PostalCode,
			Country:    s.Country,
		},
		Geo:          seo.Geo{Latitude: s.Latitude, Longitude: s.Longitude},
		OpeningHours: s.OpeningHours,
		AreaServed:   s.AreaServed,
	}
}
