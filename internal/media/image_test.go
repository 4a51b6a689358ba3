package media

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	apperrors "github.com/spec-kit/report-desk/pkg/util/errorutil"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func pngDataURL() string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(pngBytes)
}

type fakeUploader struct {
	got  []byte
	name string
	err  error
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.got, _ = io.ReadAll(r)
	f.name = name
	return "https://cdn.example.test/" + name + ".png", nil
}

func TestParseDataURL(t *testing.T) {
	img, err := ParseDataURL(pngDataURL(), 1024)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if img.MimeType != "image/png" || len(img.Data) != len(pngBytes) {
		t.Errorf("image = %s %d", img.MimeType, len(img.Data))
	}
}

func TestParseDataURLRejects(t *testing.T) {
	cases := map[string]string{
		"not data":     "ftp://example.test/a.png",
		"no comma":     "data:image/png;base64",
		"not base64":   "data:image/png,abc",
		"wrong mime":   "data:text/html;base64,PGgxPg==",
		"svg":          "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte("<svg/>")),
		"bad body":     "data:image/png;base64,@@@@",
		"empty body":   "data:image/png;base64,",
		"over the cap": "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(strings.Repeat("x", 64))),
	}
	for name, ref := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseDataURL(ref, 32)
			if err == nil {
				t.Fatal("expected error")
			}
			if de := apperrors.ToDomainError(err); de.Code != "VALIDATION_FAILED" {
				t.Errorf("code = %s", de.Code)
			}
		})
	}
}

func TestResolvePassThrough(t *testing.T) {
	r := NewResolver(1024, nil, nil)
	ctx := context.Background()

	if got, err := r.Resolve(ctx, "   ", "x"); err != nil || got != "" {
		t.Fatalf("blank = %q %v", got, err)
	}
	hosted := "https://images.example.test/a.jpg"
	if got, err := r.Resolve(ctx, hosted, "x"); err != nil || got != hosted {
		t.Fatalf("hosted = %q %v", got, err)
	}
	if got, err := r.Resolve(ctx, pngDataURL(), "x"); err != nil || got != pngDataURL() {
		t.Fatalf("inline = %q %v", got, err)
	}
}

func TestResolveUploads(t *testing.T) {
	up := &fakeUploader{}
	r := NewResolver(1024, up, nil)
	got, err := r.Resolve(context.Background(), pngDataURL(), "TK-260101-1234")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != "https://cdn.example.test/TK-260101-1234.png" {
		t.Errorf("url = %q", got)
	}
	if string(up.got) != string(pngBytes) || up.name != "TK-260101-1234" {
		t.Errorf("uploaded %d bytes as %q", len(up.got), up.name)
	}
}

func TestResolveUploadFailure(t *testing.T) {
	r := NewResolver(1024, &fakeUploader{err: errors.New("boom")}, nil)
	_, err := r.Resolve(context.Background(), pngDataURL(), "x")
	if de := apperrors.ToDomainError(err); de == nil || de.Code != "INTERNAL_ERROR" {
		t.Fatalf("err = %v", err)
	}
}
