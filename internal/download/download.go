// Package download fetches the browser and driver binaries the integration
// tests run against.
package download

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/golang/glog"
	"github.com/google/go-github/v27/github"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"
)

// File describes one downloadable test dependency.
type File struct {
	// URL is where to fetch the file from.
	URL string
	// Name is the local file name, relative to the download directory.
	Name string
	// Hash is the expected MD5 of the downloaded archive, or empty to skip
	// verification.
	Hash string
	// Rename holds an old and a new path to rename after unpacking, so the
	// test harness finds the binaries under stable names.
	Rename []string
	// Browser marks browser archives, which are skipped when only drivers
	// are wanted.
	Browser bool

	directory string
}

// Path is the file's location on disk.
func (f File) Path() string {
	return filepath.Join(f.directory, f.Name)
}

const (
	// Bucket with continuous Chromium builds, which ship a matching
	// ChromeDriver next to each browser snapshot.
	chromiumBucket   = "chromium-browser-snapshots"
	chromiumPrefix   = "Linux_x64"
	chromiumLastFile = "Linux_x64/LAST_CHANGE"

	firefoxURL = "https://download.mozilla.org/?product=firefox-latest-ssl&os=linux64&lang=en-US"
)

// ChromiumFiles returns the browser and driver archives of a Chromium
// snapshot. An empty build means the most recent snapshot.
func ChromiumFiles(ctx context.Context, build string) ([]File, error) {
	client, err := storage.NewClient(ctx, option.WithHTTPClient(http.DefaultClient))
	if err != nil {
		return nil, fmt.Errorf("cannot create a storage client: %v", err)
	}
	bkt := client.Bucket(chromiumBucket)

	if build == "" {
		r, err := bkt.Object(chromiumLastFile).NewReader(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot read gs://%s/%s: %v", chromiumBucket, chromiumLastFile, err)
		}
		defer r.Close()
		data, err := ioutil.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("cannot read gs://%s/%s: %v", chromiumBucket, chromiumLastFile, err)
		}
		build = strings.TrimSpace(string(data))
	}

	var files []File
	for _, spec := range []struct {
		object, name string
		rename       []string
		browser      bool
	}{
		{object: "chrome-linux.zip", name: "chrome-linux.zip", browser: true},
		{object: "chromedriver_linux64.zip", name: "chromedriver.zip", rename: []string{"chromedriver_linux64/chromedriver", "chromedriver"}},
	} {
		attrs, err := bkt.Object(path.Join(chromiumPrefix, build, spec.object)).Attrs(ctx)
		if err != nil {
			return nil, fmt.Errorf("cannot stat chromium build %s object %s: %v", build, spec.object, err)
		}
		files = append(files, File{
			URL:     attrs.MediaLink,
			Name:    spec.name,
			Hash:    hex.EncodeToString(attrs.MD5),
			Rename:  spec.rename,
			Browser: spec.browser,
		})
	}
	return files, nil
}

// GeckoDriverFile returns the latest GeckoDriver release archive, located
// through the GitHub releases API.
func GeckoDriverFile(ctx context.Context) (File, error) {
	client := github.NewClient(nil)
	rel, _, err := client.Repositories.GetLatestRelease(ctx, "mozilla", "geckodriver")
	if err != nil {
		return File{}, fmt.Errorf("cannot get the latest geckodriver release: %v", err)
	}
	assetRE := regexp.MustCompile(`geckodriver-.*linux64\.tar\.gz$`)
	for _, a := range rel.Assets {
		if !assetRE.MatchString(a.GetName()) {
			continue
		}
		u := a.GetBrowserDownloadURL()
		if u == "" {
			return File{}, fmt.Errorf("%s has no download URL", a.GetName())
		}
		return File{URL: u, Name: "geckodriver.tar.gz"}, nil
	}
	return File{}, fmt.Errorf("no linux64 asset in geckodriver release %s", rel.GetTagName())
}

// FirefoxFile returns the latest Firefox release archive.
func FirefoxFile() File {
	return File{
		URL:     firefoxURL,
		Name:    "firefox.tar.bz2",
		Browser: true,
	}
}

// AllFiles returns every test dependency: drivers always, browser archives
// only when browsers is set.
func AllFiles(ctx context.Context, browsers bool) ([]File, error) {
	files, err := ChromiumFiles(ctx, "")
	if err != nil {
		return nil, err
	}
	gecko, err := GeckoDriverFile(ctx)
	if err != nil {
		return nil, err
	}
	files = append(files, gecko, FirefoxFile())

	if !browsers {
		drivers := files[:0]
		for _, f := range files {
			if !f.Browser {
				drivers = append(drivers, f)
			}
		}
		files = drivers
	}
	return files, nil
}

// DownloadAll fetches and unpacks all files into directory, in parallel.
func DownloadAll(ctx context.Context, directory string, browsers bool) error {
	files, err := AllFiles(ctx, browsers)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(directory, 0755); err != nil {
		return err
	}

	var g errgroup.Group
	for _, file := range files {
		file := file
		g.Go(func() error {
			if err := Download(file, directory); err != nil {
				return fmt.Errorf("error handling %s: %v", file.Name, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Download fetches file into directory, skipping the fetch when a file with
// the expected hash is already present, and unpacks the archive.
func Download(file File, directory string) error {
	file.directory = directory

	if file.Hash != "" && sameHash(file) {
		glog.Infof("Skipping %q which has already been downloaded", file.Name)
	} else {
		glog.Infof("Downloading %q from %q", file.Name, file.URL)
		if err := fetch(file); err != nil {
			return err
		}
	}

	if err := unpack(file); err != nil {
		return err
	}

	if len(file.Rename) == 2 {
		from := filepath.Join(file.directory, file.Rename[0])
		to := filepath.Join(file.directory, file.Rename[1])
		glog.Infof("Renaming %q to %q", from, to)
		os.RemoveAll(to) // Ignore error.
		if err := os.Rename(from, to); err != nil {
			glog.Warningf("Error renaming %q to %q: %v", from, to, err)
		}
	}
	return nil
}

func fetch(file File) (err error) {
	f, err := os.Create(file.Path())
	if err != nil {
		return fmt.Errorf("error creating %q: %v", file.Path(), err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("error closing %q: %v", file.Path(), closeErr)
		}
	}()

	resp, err := http.Get(file.URL)
	if err != nil {
		return fmt.Errorf("error downloading %q: %v", file.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error downloading %q: %s", file.URL, resp.Status)
	}

	if file.Hash == "" {
		_, err := io.Copy(f, resp.Body)
		return err
	}

	var h hash.Hash = md5.New()
	if _, err := io.Copy(io.MultiWriter(f, h), resp.Body); err != nil {
		return fmt.Errorf("error downloading %q: %v", file.URL, err)
	}
	if sum := hex.EncodeToString(h.Sum(nil)); sum != file.Hash {
		return fmt.Errorf("%s: got md5 %q, want %q", file.Name, sum, file.Hash)
	}
	return nil
}

func sameHash(file File) bool {
	f, err := os.Open(file.Path())
	if err != nil {
		return false
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != file.Hash {
		glog.Warningf("File %q: got hash %q, want %q", file.Name, sum, file.Hash)
		return false
	}
	return true
}

func unpack(file File) error {
	var cmd []string
	switch path.Ext(file.Name) {
	case ".zip":
		cmd = []string{"unzip", "-d", file.directory, "-o", file.Path()}
	case ".gz":
		cmd = []string{"tar", "-xzf", file.Path(), "-C", file.directory}
	case ".bz2":
		cmd = []string{"tar", "-xjf", file.Path(), "-C", file.directory}
	default:
		return nil
	}

	glog.Infof("Unpacking %q", file.Path())
	if err := exec.Command(cmd[0], cmd[1:]...).Run(); err != nil {
		return fmt.Errorf("error unpacking %q: %v", file.Name, err)
	}
	return nil
}
