// Package update asks GitHub whether a newer release of deadwood exists.
// It only reports; installing is left to the package manager or the user.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	DefaultRepo = "appengine-ltd/deadwood"

	githubAPI = "https://api.github.com"
)

var repoPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

// Checker looks up the latest release of Repo. Zero values fall back to
// DefaultRepo, the public GitHub API and a client with a 20s timeout.
type Checker struct {
	Repo    string
	BaseURL string
	Client  *http.Client
}

type githubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Check compares current against the latest release tag and returns a line
// suitable for printing.
func (c Checker) Check(ctx context.Context, current string) (string, error) {
	rel, err := c.fetchLatestRelease(ctx)
	if err != nil {
		return "", err
	}

	latest := strings.TrimPrefix(rel.TagName, "v")
	current = strings.TrimPrefix(current, "v")

	switch {
	case latest == current:
		return fmt.Sprintf("Up to date (v%s).", latest), nil
	case current == "dev" || current == "":
		return fmt.Sprintf("Latest release is v%s.", latest), nil
	default:
		msg := fmt.Sprintf("Update available: v%s -> v%s.", current, latest)
		if rel.HTMLURL != "" {
			msg += " " + rel.HTMLURL
		}
		return msg, nil
	}
}

func (c Checker) fetchLatestRelease(ctx context.Context) (*githubRelease, error) {
	repo := c.Repo
	if repo == "" {
		repo = DefaultRepo
	}
	if err := validateRepo(repo); err != nil {
		return nil, err
	}
	base := c.BaseURL
	if base == "" {
		base = githubAPI
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/repos/%s/releases/latest", strings.TrimSuffix(base, "/"), repo)
	if err := validateHTTPSURL(endpoint, map[string]struct{}{strings.ToLower(parsed.Hostname()): {}}); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	// #nosec G704 -- URL scheme and host are validated above.
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("github latest release: %s: %s", resp.Status, strings.TrimSpace(string(b)))
	}

	var rel githubRelease
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&rel); err != nil {
		return nil, err
	}
	if rel.TagName == "" {
		return nil, errors.New("latest release has no tag_name")
	}
	return &rel, nil
}

func validateRepo(repo string) error {
	if !repoPattern.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %q", repo)
	}
	return nil
}

func validateHTTPSURL(raw string, allowedHosts map[string]struct{}) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if !strings.EqualFold(parsed.Scheme, "https") {
		return fmt.Errorf("unsupported URL scheme: %s", parsed.Scheme)
	}
	host := strings.ToLower(parsed.Hostname())
	if _, ok := allowedHosts[host]; !ok {
		return fmt.Errorf("unsupported URL host: %s", host)
	}
	return nil
}
