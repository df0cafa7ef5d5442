package helpers

import (
	"context"
	"strings"
	"testing"
)

func TestAvatarObjectPath(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		wantExt  string
	}{
		{"jpeg", "me.JPG", ".jpg"},
		{"no ext", "avatar", ""},
		{"windows path", `C:\photos\me.png`, ".png"},
		{"absurd ext", "x.aaaaaaaaaaaa", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := AvatarObjectPath("u1", tc.filename)
			if !strings.HasPrefix(p, "avatars/u1/") {
				t.Errorf("unexpected prefix: %s", p)
			}
			if !strings.HasSuffix(p, tc.wantExt) {
				t.Errorf("expected suffix %q in %s", tc.wantExt, p)
			}
			if strings.Contains(p, "photos") {
				t.Errorf("client path leaked into object name: %s", p)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	got := PublicURL("bucket", "avatars/u1/x.png")
	if got != "https://storage.googleapis.com/bucket/avatars/u1/x.png" {
		t.Errorf("unexpected url %s", got)
	}
}

func TestGCSUploader_NotConfigured(t *testing.T) {
	var u *GCSUploader
	if _, err := u.Upload(context.Background(), "a", "image/png", strings.NewReader("x")); err == nil {
		t.Error("expected error from unconfigured uploader")
	}
}
