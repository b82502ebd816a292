package elevenlabs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog/log"
)

const (
	DefaultURL    = "https://api.elevenlabs.io/v1/music"
	DefaultOutput = "generated_music.mp3"

	musicLength  = 30 * time.Second
	modelID      = "music_v1"
	outputFormat = "mp3_44100_128"
)

type Config struct {
	Key     string
	BaseURL string
	Output  string
	Client  *http.Client
	Debug   bool
}

type Client struct {
	client  *http.Client
	key     string
	baseURL string
	output  string
	debug   bool
}

// Result is the outcome of a generation. Path is set when audio was
// downloaded, Message carries the diagnostic otherwise. Both are empty when
// the service answered with something that couldn't be interpreted.
type Result struct {
	Path    string
	Message string
}

func New(cfg *Config) *Client {
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultURL
	}
	output := cfg.Output
	if output == "" {
		output = DefaultOutput
	}
	return &Client{
		client:  client,
		key:     cfg.Key,
		baseURL: baseURL,
		output:  output,
		debug:   cfg.Debug,
	}
}

type request struct {
	Prompt        string `json:"prompt"`
	MusicLengthMS int64  `json:"music_length_ms"`
	ModelID       string `json:"model_id"`
}

// Generate sends a single generation request and classifies the response.
func (c *Client) Generate(ctx context.Context, prompt string) Result {
	res, err := c.generate(ctx, prompt)
	if err != nil {
		return Result{Message: err.Error()}
	}
	return res
}

func (c *Client) generate(ctx context.Context, prompt string) (Result, error) {
	body, err := json.Marshal(&request{
		Prompt:        prompt,
		MusicLengthMS: musicLength.Milliseconds(),
		ModelID:       modelID,
	})
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: couldn't marshal request body: %w", err)
	}
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: invalid url %s: %w", c.baseURL, err)
	}
	q := u.Query()
	q.Set("output_format", outputFormat)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: couldn't create request: %w", err)
	}
	req.Header.Set("xi-api-key", c.key)
	req.Header.Set("Content-Type", "application/json")

	c.log("elevenlabs: do POST %s %s", u.Redacted(), string(body))
	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: couldn't post %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	c.log("elevenlabs: response %d %s", resp.StatusCode, contentType)

	if resp.StatusCode != http.StatusOK {
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return Result{}, fmt.Errorf("elevenlabs: couldn't read response body (%d): %w", resp.StatusCode, err)
		}
		return Result{Message: fmt.Sprintf("elevenlabs: error %d - %s", resp.StatusCode, describe(b))}, nil
	}

	if strings.HasPrefix(contentType, "audio/") {
		if err := c.save(resp.Body); err != nil {
			return Result{}, err
		}
		return Result{Path: c.output}, nil
	}

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("elevenlabs: couldn't read response body: %w", err)
	}
	if !json.Valid(b) {
		return Result{}, nil
	}
	return Result{Message: fmt.Sprintf("elevenlabs: api returned %s instead of audio: %s", contentType, compact(b))}, nil
}

// save streams the audio to the output file replacing any previous one.
func (c *Client) save(r io.Reader) error {
	f, err := renameio.NewPendingFile(c.output, renameio.WithPermissions(0644))
	if err != nil {
		return fmt.Errorf("elevenlabs: couldn't create %s: %w", c.output, err)
	}
	defer func() { _ = f.Cleanup() }()
	if _, err := io.Copy(f, r); err != nil {
		return fmt.Errorf("elevenlabs: couldn't download audio: %w", err)
	}
	if err := f.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("elevenlabs: couldn't write %s: %w", c.output, err)
	}
	return nil
}

func (c *Client) log(format string, args ...interface{}) {
	if c.debug {
		log.Debug().Msgf(format, args...)
	}
}

func describe(b []byte) string {
	if json.Valid(b) {
		return compact(b)
	}
	return string(b)
}

func compact(b []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, b); err != nil {
		return string(b)
	}
	return buf.String()
}

// NewHTTPClient returns a client using the given proxy, if any. A zero
// timeout leaves requests bounded only by the transport defaults.
func NewHTTPClient(proxy string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{
		Timeout: timeout,
	}
	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("elevenlabs: invalid proxy URL: %w", err)
		}
		client.Transport = &http.Transport{
			Proxy: http.ProxyURL(u),
		}
	}
	return client, nil
}
