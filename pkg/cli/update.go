package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/blang/semver"
	"github.com/rhysd/go-github-selfupdate/selfupdate"
)

// Version is set at build time with -ldflags "-X ...cli.Version=1.2.3".
var Version = "0.1.0"

// Repo is the GitHub repository releases are fetched from.
const Repo = "Fepozopo/histofilter"

// goos and goarch are matched against release asset names.
var (
	goos   = runtime.GOOS
	goarch = runtime.GOARCH
)

// semverRe finds a version like v1.2.3 or 1.2.3-rc.1 inside a tag or release name.
var semverRe = regexp.MustCompile(`v?\d+\.\d+\.\d+(-[0-9A-Za-z.-]+)?(\+[0-9A-Za-z.-]+)?`)

// Updater checks GitHub releases and replaces the running binary.
type Updater struct {
	APIBase string // e.g. https://api.github.com
	Repo    string
	Current string
	Client  *http.Client
	In      io.Reader
	Out     io.Writer
	// Apply installs the asset at url over the executable at exe.
	Apply func(url, exe string) error
}

// NewUpdater returns an Updater for Repo talking to api.github.com.
func NewUpdater() *Updater {
	return &Updater{
		APIBase: "https://api.github.com",
		Repo:    Repo,
		Current: Version,
		Client:  &http.Client{Timeout: 10 * time.Second},
		In:      os.Stdin,
		Out:     os.Stdout,
		Apply:   selfupdate.UpdateTo,
	}
}

// LatestRelease returns the highest published, non-prerelease release with a
// semver tag (or name). found is false when there is none.
func (u *Updater) LatestRelease(ctx context.Context) (*selfupdate.Release, bool, error) {
	apiURL := fmt.Sprintf("%s/repos/%s/releases", strings.TrimRight(u.APIBase, "/"), u.Repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := u.Client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("github API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("failed reading github response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("github API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var releases []struct {
		TagName    string `json:"tag_name"`
		Name       string `json:"name"`
		Draft      bool   `json:"draft"`
		Prerelease bool   `json:"prerelease"`
		HTMLURL    string `json:"html_url"`
		Assets     []struct {
			Name               string `json:"name"`
			BrowserDownloadURL string `json:"browser_download_url"`
		} `json:"assets"`
	}
	if err := json.Unmarshal(body, &releases); err != nil {
		return nil, false, fmt.Errorf("failed to decode github releases: %w", err)
	}

	var candidates []*selfupdate.Release
	for _, r := range releases {
		if r.Draft || r.Prerelease {
			continue
		}
		match := semverRe.FindString(r.TagName)
		if match == "" {
			if match = semverRe.FindString(r.Name); match == "" {
				continue
			}
		}
		v, err := semver.ParseTolerant(match)
		if err != nil {
			continue
		}
		rel := &selfupdate.Release{Version: v, URL: r.HTMLURL}
		for _, a := range r.Assets {
			if assetMatchesPlatform(a.Name) {
				rel.AssetURL = a.BrowserDownloadURL
				break
			}
		}
		candidates = append(candidates, rel)
	}
	if len(candidates) == 0 {
		return nil, false, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Version.GT(candidates[j].Version)
	})
	return candidates[0], true, nil
}

// assetMatchesPlatform reports whether an asset name mentions this OS and arch.
func assetMatchesPlatform(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, goos) && strings.Contains(n, goarch)
}

// CheckForUpdates prints the current and latest versions and, after the user
// confirms, installs the newer release.
func (u *Updater) CheckForUpdates(ctx context.Context) error {
	fmt.Fprintf(u.Out, "Current version: %s\n", u.Current)
	latest, found, err := u.LatestRelease(ctx)
	if err != nil {
		return fmt.Errorf("update check failed: %w", err)
	}
	if !found {
		fmt.Fprintf(u.Out, "No releases found for %s.\n", u.Repo)
		return nil
	}
	fmt.Fprintf(u.Out, "Latest version: %s\n", latest.Version)

	current, perr := semver.ParseTolerant(u.Current)
	if perr != nil {
		fmt.Fprintf(u.Out, "warning: could not parse current version %q: %v\n", u.Current, perr)
	} else if latest.Version.LTE(current) {
		fmt.Fprintf(u.Out, "You are already running the latest version: %s.\n", current)
		return nil
	}

	if latest.AssetURL == "" {
		fmt.Fprintf(u.Out, "A new version (%s) is available but there is no asset for %s/%s.\n", latest.Version, goos, goarch)
		if latest.URL != "" {
			fmt.Fprintf(u.Out, "Download it from %s\n", latest.URL)
		}
		return nil
	}

	answer, err := PromptLine(bufio.NewReader(u.In), u.Out, fmt.Sprintf("A new version (%s) is available. Update now? (y/N): ", latest.Version))
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed reading input: %w", err)
	}
	answer = strings.ToLower(answer)
	if answer != "y" && answer != "yes" {
		fmt.Fprintln(u.Out, "Update cancelled.")
		return nil
	}

	fmt.Fprintln(u.Out, "Updating...")
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("could not locate executable: %w", err)
	}
	if err := u.Apply(latest.AssetURL, exe); err != nil {
		return fmt.Errorf("update failed: %w", err)
	}
	fmt.Fprintf(u.Out, "Updated to version %s. Restart histofilter to use it.\n", latest.Version)
	return nil
}

// PromptLine writes prompt to w and reads one trimmed line from r.
func PromptLine(r *bufio.Reader, w io.Writer, prompt string) (string, error) {
	fmt.Fprint(w, prompt)
	line, err := r.ReadString('\n')
	return strings.TrimSpace(line), err
}
