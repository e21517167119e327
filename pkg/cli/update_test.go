package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const releasesJSON = `[
  {"tag_name": "v0.3.0-beta", "name": "beta", "prerelease": true,
   "assets": [{"name": "histofilter_linux_amd64.tar.gz", "browser_download_url": "https://example.invalid/beta"}]},
  {"tag_name": "release-0.2.1", "name": "0.2.1", "html_url": "https://example.invalid/r/0.2.1",
   "assets": [
     {"name": "histofilter_darwin_arm64.tar.gz", "browser_download_url": "https://example.invalid/darwin"},
     {"name": "histofilter_linux_amd64.tar.gz", "browser_download_url": "https://example.invalid/linux"}
   ]},
  {"tag_name": "v0.4.0", "name": "draft", "draft": true, "assets": []},
  {"tag_name": "nightly", "name": "no version here", "assets": []},
  {"tag_name": "v0.1.0", "name": "first", "assets": []}
]`

func newTestUpdater(t *testing.T, status int, body string) (*Updater, *bytes.Buffer, *[]string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/"+Repo+"/releases" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	oldOS, oldArch := goos, goarch
	goos, goarch = "linux", "amd64"
	t.Cleanup(func() { goos, goarch = oldOS, oldArch })

	var out bytes.Buffer
	var applied []string
	u := &Updater{
		APIBase: srv.URL,
		Repo:    Repo,
		Current: "0.1.0",
		Client:  srv.Client(),
		In:      strings.NewReader(""),
		Out:     &out,
		Apply: func(url, exe string) error {
			applied = append(applied, url)
			return nil
		},
	}
	return u, &out, &applied
}

func TestLatestReleasePicksHighestPublished(t *testing.T) {
	u, _, _ := newTestUpdater(t, http.StatusOK, releasesJSON)
	rel, found, err := u.LatestRelease(context.Background())
	if err != nil {
		t.Fatalf("LatestRelease failed: %v", err)
	}
	if !found {
		t.Fatalf("expected a release")
	}
	if rel.Version.String() != "0.2.1" {
		t.Fatalf("version = %s, want 0.2.1", rel.Version)
	}
	if rel.AssetURL != "https://example.invalid/linux" {
		t.Fatalf("asset = %q", rel.AssetURL)
	}
}

func TestLatestReleaseErrors(t *testing.T) {
	u, _, _ := newTestUpdater(t, http.StatusInternalServerError, "boom")
	if _, _, err := u.LatestRelease(context.Background()); err == nil || !strings.Contains(err.Error(), "status 500") {
		t.Fatalf("expected status error, got %v", err)
	}
	u, _, _ = newTestUpdater(t, http.StatusOK, "{not json")
	if _, _, err := u.LatestRelease(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
	u, _, _ = newTestUpdater(t, http.StatusOK, "[]")
	if _, found, err := u.LatestRelease(context.Background()); err != nil || found {
		t.Fatalf("empty list: found=%v err=%v", found, err)
	}
}

func TestCheckForUpdatesApplies(t *testing.T) {
	u, out, applied := newTestUpdater(t, http.StatusOK, releasesJSON)
	u.In = strings.NewReader("yes\n")
	if err := u.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if len(*applied) != 1 || (*applied)[0] != "https://example.invalid/linux" {
		t.Fatalf("applied = %v", *applied)
	}
	if !strings.Contains(out.String(), "Updated to version 0.2.1") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestCheckForUpdatesDeclined(t *testing.T) {
	u, out, applied := newTestUpdater(t, http.StatusOK, releasesJSON)
	u.In = strings.NewReader("n\n")
	if err := u.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if len(*applied) != 0 {
		t.Fatalf("update applied after decline")
	}
	if !strings.Contains(out.String(), "Update cancelled.") {
		t.Fatalf("output: %s", out.String())
	}
}

func TestCheckForUpdatesUpToDate(t *testing.T) {
	u, out, applied := newTestUpdater(t, http.StatusOK, releasesJSON)
	u.Current = "v0.2.1"
	if err := u.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if len(*applied) != 0 || !strings.Contains(out.String(), "already running the latest version") {
		t.Fatalf("unexpected result: applied=%v output=%s", *applied, out.String())
	}
}

func TestCheckForUpdatesNoAsset(t *testing.T) {
	u, out, applied := newTestUpdater(t, http.StatusOK, releasesJSON)
	goos = "plan9"
	if err := u.CheckForUpdates(context.Background()); err != nil {
		t.Fatalf("CheckForUpdates failed: %v", err)
	}
	if len(*applied) != 0 || !strings.Contains(out.String(), "https://example.invalid/r/0.2.1") {
		t.Fatalf("unexpected result: applied=%v output=%s", *applied, out.String())
	}
}
