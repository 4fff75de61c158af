package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/seckatie/urlrota/internal/core/db"
	"gopkg.in/yaml.v3"
)

// Seed is a YAML description of domains, browser profiles and URLs to load
// into an empty or existing store:
//
//	domains:
//	  - name: news
//	    default: true
//	browsers:
//	  - name: firefox
//	    vpn_code: us
//	    command: /usr/bin/firefox
//	urls:
//	  - url: https://example.com
//	    domain: news
//	    weight: 3
type Seed struct {
	Domains  []SeedDomain  `yaml:"domains"`
	Browsers []SeedBrowser `yaml:"browsers"`
	URLs     []SeedURL     `yaml:"urls"`
}

type SeedDomain struct {
	Name    string `yaml:"name"`
	Default bool   `yaml:"default"`
}

type SeedBrowser struct {
	Name     string `yaml:"name"`
	VPNCode  string `yaml:"vpn_code"`
	Command  string `yaml:"command"`
	Launcher string `yaml:"launcher"`
}

type SeedURL struct {
	URL    string `yaml:"url"`
	Domain string `yaml:"domain"`
	Weight int    `yaml:"weight"`
}

// SeedStore is the part of the store a seed is applied to.
type SeedStore interface {
	AddDomain(name string, isDefault bool) error
	UpsertBrowser(b db.Browser) (int64, error)
	AddURL(rawURL, domain string, weight int) (int64, bool, error)
}

// SeedResult counts what ApplySeed wrote.
type SeedResult struct {
	Domains    int
	Browsers   int
	URLs       int
	Duplicates int
}

// ParseSeed decodes a seed document, rejecting unknown keys.
func ParseSeed(data []byte) (Seed, error) {
	var s Seed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return Seed{}, nil
		}
		return Seed{}, fmt.Errorf("%w: seed: %w", ErrInvalidInput, err)
	}
	return s, nil
}

// LoadSeed reads and decodes a seed file.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, err
	}
	return ParseSeed(data)
}

// ApplySeed writes domains, then browsers, then URLs. It stops at the first
// error; everything written before it stays.
func ApplySeed(store SeedStore, s Seed) (SeedResult, error) {
	var res SeedResult
	for _, d := range s.Domains {
		if err := store.AddDomain(d.Name, d.Default); err != nil {
			return res, fmt.Errorf("seed domain %q: %w", d.Name, err)
		}
		res.Domains++
	}
	for _, b := range s.Browsers {
		if _, err := store.UpsertBrowser(db.Browser{
			Name:     b.Name,
			VPNCode:  b.VPNCode,
			Command:  b.Command,
			Launcher: b.Launcher,
		}); err != nil {
			return res, fmt.Errorf("seed browser %q: %w", b.Name, err)
		}
		res.Browsers++
	}
	for _, u := range s.URLs {
		_, created, err := store.AddURL(u.URL, u.Domain, u.Weight)
		if err != nil {
			return res, fmt.Errorf("seed url %q: %w", u.URL, err)
		}
		if created {
			res.URLs++
		} else {
			res.Duplicates++
		}
	}
	return res, nil
}
