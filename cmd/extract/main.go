// Command extract prints the text of a local PDF the same way POST /api/extract
// would return it.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"alfredoptarigan/resume-optimizer/internal/config"
	"alfredoptarigan/resume-optimizer/internal/logger"
	"alfredoptarigan/resume-optimizer/internal/services"
)

func main() {
	clean := flag.Bool("clean", false, "drop blank lines and trim each line")
	pages := flag.Bool("pages", false, "log the page count")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: extract [-clean] [-pages] <file.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := config.Load()
	logr, err := logger.New(cfg.Log.Level, cfg.Log.File)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	// keep stdout for the extracted text
	logr.SetOutput(os.Stderr)

	info, err := os.Stat(path)
	if err != nil {
		logr.Fatalf("❌ %v", err)
	}
	if info.Size() > cfg.Upload.MaxFileSize {
		logr.Fatalf("❌ File too large. Max size: %d bytes", cfg.Upload.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		logr.Fatalf("❌ Failed to read %s: %v", path, err)
	}

	content, err := services.NewPDFParserService().ExtractTextWithMetaData(data)
	if err != nil {
		logr.Fatalf("❌ %v", err)
	}

	if *pages {
		logr.WithFields(logrus.Fields{
			"file":  path,
			"pages": content.PageCount,
		}).Info("📄 PDF parsed")
	}

	text := strings.TrimSpace(content.Text)
	if *clean {
		text = services.CleanText(text)
	}
	if text == "" {
		logr.Fatal("❌ No text content found in PDF")
	}

	fmt.Println(text)
}
