// Package meta loads engine configurations from any afs supported URL
// (file://, mem://, s3://, gs:// ...) and decodes YAML, JSON or HCL into
// model.Config, keeping declaration order.
package meta

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/structor/model"
)

// ErrInvalidConfig is returned when a configuration cannot be decoded.
var ErrInvalidConfig = errors.New("meta: invalid configuration")

// Format represents configuration encoding
type Format string

// Supported formats
const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// FormatOf returns the configuration format implied by URL extension, YAML by default
func FormatOf(URL string) Format {
	switch strings.ToLower(path.Ext(URL)) {
	case ".json":
		return FormatJSON
	case ".hcl":
		return FormatHCL
	}
	return FormatYAML
}

// Service loads engine configurations
type Service struct {
	fs        afs.Service
	fsOptions []storage.Option
	expandEnv bool
}

// Option customises a Service
type Option func(s *Service)

// WithFS sets the storage service
func WithFS(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithFsOptions sets storage options, for example an embed.FS for embed:// URLs
func WithFsOptions(options ...storage.Option) Option {
	return func(s *Service) {
		s.fsOptions = append(s.fsOptions, options...)
	}
}

// WithEnvExpansion toggles ${env.KEY} expansion, enabled by default
func WithEnvExpansion(enabled bool) Option {
	return func(s *Service) {
		s.expandEnv = enabled
	}
}

// New creates a service
func New(options ...Option) *Service {
	ret := &Service{fs: afs.New(), expandEnv: true}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// Download returns raw configuration content with env expressions expanded
func (s *Service) Download(ctx context.Context, URL string) ([]byte, error) {
	data, err := s.fs.DownloadWithURL(ctx, URL, s.fsOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", URL, err)
	}
	if s.expandEnv {
		data = []byte(expandEnvExpr(string(data)))
	}
	return data, nil
}

// Load downloads and decodes an engine configuration
func (s *Service) Load(ctx context.Context, URL string) (*model.Config, error) {
	data, err := s.Download(ctx, URL)
	if err != nil {
		return nil, err
	}
	config, err := Decode(data, FormatOf(URL), path.Base(URL))
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", URL, err)
	}
	return config, nil
}

// Decode decodes an engine configuration, filename is used in HCL diagnostics
func Decode(data []byte, format Format, filename string) (*model.Config, error) {
	var config *model.Config
	var err error
	switch format {
	case FormatHCL:
		config, err = DecodeHCL(data, filename)
	default:
		config, err = DecodeYAML(data)
	}
	if err != nil {
		return nil, err
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
