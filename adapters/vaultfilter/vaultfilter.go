// Package vaultfilter builds a collex.Filter whose active values come from
// a Vault KV secret instead of being set directly by application code,
// letting a deployment drive filter membership (e.g. an allow-list of
// statuses or tenant ids) from a value store rather than a config file.
package vaultfilter

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/cloudfoundry-community/vaultkv"

	"github.com/wayneeseguin/collex"
)

// Config describes how to reach Vault and which secret holds the active
// filter values.
type Config struct {
	Addr      string
	Token     string
	Namespace string
	Secret    string // path of the KV secret, e.g. "secret/collex/statuses"
	Subkey    string // key within the secret whose value is a list; "" reads all keys
	Insecure  bool
}

// NewClient builds a vaultkv.Client from cfg, mirroring the certificate-pool
// and redirect-header handling a Vault HTTP client needs.
func NewClient(cfg Config) (*vaultkv.Client, error) {
	if cfg.Addr == "" || cfg.Token == "" {
		return nil, fmt.Errorf("vaultfilter: Addr and Token are required")
	}
	roots, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("vaultfilter: unable to retrieve system root certificate authorities: %s", err)
	}
	parsedURL, err := url.Parse(cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("vaultfilter: could not parse Vault URL %q: %s", cfg.Addr, err)
	}
	if parsedURL.Port() == "" {
		if parsedURL.Scheme == "http" {
			parsedURL.Host = parsedURL.Host + ":80"
		} else {
			parsedURL.Host = parsedURL.Host + ":443"
		}
	}

	client := &vaultkv.Client{
		AuthToken: cfg.Token,
		VaultURL:  parsedURL,
		Namespace: cfg.Namespace,
		Client: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				TLSClientConfig: &tls.Config{
					RootCAs:            roots,
					InsecureSkipVerify: cfg.Insecure,
				},
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) > 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				req.Header.Add("X-Vault-Token", cfg.Token)
				if cfg.Namespace != "" {
					req.Header.Add("X-Vault-Namespace", cfg.Namespace)
				}
				return nil
			},
		},
	}
	return client, nil
}

// FetchValues reads cfg.Secret through kv and returns the list of values to
// activate on a filter. If cfg.Subkey is set, that key's value (expected to
// be a []interface{} of strings) becomes the value list; otherwise every
// key of the secret is used, sorted for determinism.
func FetchValues(kv *vaultkv.KV, cfg Config) ([]string, error) {
	secretMap := map[string]interface{}{}
	if _, err := kv.Get(cfg.Secret, &secretMap, nil); err != nil {
		if _, ok := err.(*vaultkv.ErrNotFound); ok {
			return nil, nil
		}
		return nil, fmt.Errorf("vaultfilter: fetching secret %q: %s", cfg.Secret, err)
	}

	if cfg.Subkey == "" {
		keys := make([]string, 0, len(secretMap))
		for k := range secretMap {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		return keys, nil
	}

	raw, ok := secretMap[cfg.Subkey]
	if !ok {
		return nil, fmt.Errorf("vaultfilter: subkey %q not found in secret %q", cfg.Subkey, cfg.Secret)
	}
	list, ok := raw.([]interface{})
	if !ok {
		return nil, fmt.Errorf("vaultfilter: subkey %q in secret %q is not a list", cfg.Subkey, cfg.Secret)
	}
	values := make([]string, 0, len(list))
	for _, v := range list {
		values = append(values, fmt.Sprintf("%v", v))
	}
	return values, nil
}

// Load builds a vault client for cfg, fetches the active values, and applies
// them to filter, clearing any values already set. Callers own the filter's
// manager registration; Load only (re)populates its value set.
func Load[T any](filter *collex.Filter[T, string], cfg Config) error {
	client, err := NewClient(cfg)
	if err != nil {
		return err
	}
	values, err := FetchValues(client.NewKV(), cfg)
	if err != nil {
		return err
	}
	filter.ClearValues()
	for _, v := range values {
		filter.AddValue(v)
	}
	return nil
}
