// file: services/endpoints.go
package services

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go-facilities-admin/logger"
)

// ErrEndpointNotFound is returned for names missing from the table.
var ErrEndpointNotFound = errors.New("endpoint not found")

// Encoding selects how a request body is sent.
type Encoding string

// Supported encodings.
const (
	EncodingQuery     Encoding = "query"
	EncodingJSON      Encoding = "json"
	EncodingForm      Encoding = "form"
	EncodingMultipart Encoding = "multipart"
)

//go:embed endpoints.yaml
var defaultEndpoints []byte

// Endpoint describes one backend operation.
type Endpoint struct {
	Name     string   `yaml:"name" json:"name"`
	Method   string   `yaml:"method" json:"method"`
	Path     string   `yaml:"path" json:"path"`
	Root     string   `yaml:"root,omitempty" json:"root,omitempty"`
	Encoding Encoding `yaml:"encoding" json:"encoding"`
	Fallback string   `yaml:"fallback" json:"fallback"`
}

// URL joins host and the endpoint path, filling {name} placeholders from params.
func (e Endpoint) URL(host string, params map[string]string) (string, error) {
	host = strings.TrimRight(strings.TrimSpace(host), "/")
	if host == "" {
		return "", errors.New("backend host is not set")
	}
	if !strings.Contains(host, "://") {
		host = "https://" + host
	}

	path := e.Path
	for {
		open := strings.Index(path, "{")
		if open < 0 {
			break
		}
		end := strings.Index(path[open:], "}")
		if end < 0 {
			return "", fmt.Errorf("%s: unterminated placeholder in %q", e.Name, e.Path)
		}
		key := path[open+1 : open+end]
		value, ok := params[key]
		if !ok || value == "" {
			return "", fmt.Errorf("%s: missing path parameter %q", e.Name, key)
		}
		path = path[:open] + url.PathEscape(value) + path[open+end+1:]
	}
	return host + path, nil
}

// EndpointTable is the ordered list of backend operations.
type EndpointTable struct {
	Endpoints []Endpoint `yaml:"endpoints"`
	byName    map[string]int
}

var knownMethods = map[string]bool{
	http.MethodGet: true, http.MethodPost: true, http.MethodPut: true,
	http.MethodPatch: true, http.MethodDelete: true,
}

// LoadEndpointTable parses and validates a YAML table.
func LoadEndpointTable(r io.Reader) (*EndpointTable, error) {
	var t EndpointTable
	if err := yaml.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode endpoint table: %w", err)
	}
	t.byName = make(map[string]int, len(t.Endpoints))
	for i := range t.Endpoints {
		e := &t.Endpoints[i]
		e.Method = strings.ToUpper(strings.TrimSpace(e.Method))
		if e.Encoding == "" {
			e.Encoding = EncodingQuery
		}
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("endpoint %d: name is required", i)
		case e.Path == "":
			return nil, fmt.Errorf("endpoint %s: path is required", e.Name)
		case !knownMethods[e.Method]:
			return nil, fmt.Errorf("endpoint %s: unsupported method %q", e.Name, e.Method)
		}
		switch e.Encoding {
		case EncodingQuery, EncodingJSON, EncodingForm, EncodingMultipart:
		default:
			return nil, fmt.Errorf("endpoint %s: unsupported encoding %q", e.Name, e.Encoding)
		}
		if _, dup := t.byName[e.Name]; dup {
			return nil, fmt.Errorf("endpoint %s: defined twice", e.Name)
		}
		if e.Fallback == "" {
			e.Fallback = "Request failed"
		}
		t.byName[e.Name] = i
	}
	return &t, nil
}

// DefaultEndpointTable returns the embedded table.
func DefaultEndpointTable() (*EndpointTable, error) {
	return LoadEndpointTable(bytes.NewReader(defaultEndpoints))
}

// LoadEndpointFile reads the table at path, or the embedded one when path is empty.
func LoadEndpointFile(path string) (*EndpointTable, error) {
	if path == "" {
		return DefaultEndpointTable()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open endpoint table: %w", err)
	}
	defer f.Close()
	logger.Info.Printf("[LoadEndpointFile] Using endpoint table %s", path)
	return LoadEndpointTable(f)
}

// Lookup returns the endpoint registered under name.
func (t *EndpointTable) Lookup(name string) (Endpoint, error) {
	i, ok := t.byName[name]
	if !ok {
		return Endpoint{}, fmt.Errorf("%w: %s", ErrEndpointNotFound, name)
	}
	return t.Endpoints[i], nil
}

// All returns the endpoints in table order.
func (t *EndpointTable) All() []Endpoint {
	return append([]Endpoint(nil), t.Endpoints...)
}
