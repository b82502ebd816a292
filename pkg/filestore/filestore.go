package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/igolaizola/musikbot/pkg/filestore/local"
	"github.com/igolaizola/musikbot/pkg/filestore/s3"
	"github.com/oklog/ulid/v2"
)

type fs interface {
	Upload(ctx context.Context, path, name string) error
	URL(ctx context.Context, name string) (string, error)
}

// Store archives generated songs.
type Store struct {
	fs fs
}

// Store uploads the song at path under a new unique name and returns it.
func (s *Store) Store(ctx context.Context, path string) (string, error) {
	name := MP3(ulid.Make().String())
	if err := s.fs.Upload(ctx, path, name); err != nil {
		return "", fmt.Errorf("filestore: %w", err)
	}
	return name, nil
}

// URL returns a link to an archived song.
func (s *Store) URL(ctx context.Context, name string) (string, error) {
	return s.fs.URL(ctx, name)
}

// New creates a store. Connection strings are a folder for local and
// key:secret@bucket.region for s3.
func New(ctx context.Context, typ, conn string, debug bool) (*Store, error) {
	var fs fs
	switch typ {
	case "s3":
		split := strings.Split(conn, "@")
		if len(split) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 connection string %q", conn)
		}
		auth := strings.Split(split[0], ":")
		if len(auth) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 auth string %q", conn)
		}
		key := auth[0]
		secret := auth[1]
		loc := strings.Split(split[1], ".")
		if len(loc) != 2 {
			return nil, fmt.Errorf("filestore: invalid s3 location string %q", conn)
		}
		bucket := loc[0]
		region := loc[1]
		candidate, err := s3.New(ctx, key, secret, region, bucket, debug)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	case "local":
		candidate, err := local.New(conn)
		if err != nil {
			return nil, fmt.Errorf("filestore: %w", err)
		}
		fs = candidate
	default:
		return nil, fmt.Errorf("filestore: unknown file storage type %q", typ)
	}
	return &Store{fs: fs}, nil
}

func MP3(id string) string {
	return id + ".mp3"
}
