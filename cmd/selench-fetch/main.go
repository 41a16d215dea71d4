// Binary selench-fetch downloads the browser and driver binaries needed to
// run the integration tests, into the directory the test harness looks in.
package main

import (
	"context"
	"flag"

	"github.com/golang/glog"

	"github.com/wanmail/selench/internal/download"
)

var (
	dir      = flag.String("dir", "testdata/deps", "The directory to download into.")
	browsers = flag.Bool("download_browsers", true, "If true, download the Chromium and Firefox browsers as well as the drivers.")
)

func main() {
	flag.Parse()

	if err := download.DownloadAll(context.Background(), *dir, *browsers); err != nil {
		glog.Exitf("Error downloading test dependencies: %s", err)
	}
	glog.Infof("Test dependencies downloaded to %q", *dir)
}
