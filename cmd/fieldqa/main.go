// Command fieldqa compares the light field and radiation field of
// EPID-acquired RT DICOM images and writes a PDF report plus a CSV summary.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"field-qa/internal/compare"
	"field-qa/internal/config"
	"field-qa/internal/qa"
	"field-qa/internal/radfield"
	"field-qa/internal/report"
	"field-qa/internal/version"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", "", "Optional YAML configuration file")
	pdfPath := flag.String("pdf", "", "Report PDF path (overrides config)")
	csvPath := flag.String("csv", "", "Summary CSV path (overrides config)")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("fieldqa %s (built %s, commit %s)\n", version.Version, version.BuildTime, version.GitCommit)
		return
	}

	files := flag.Args()
	if len(files) == 0 {
		fmt.Println("No input files selected.")
		fmt.Println("Usage: fieldqa [-config qa.yaml] [-pdf report.pdf] [-csv results.csv] image.dcm ...")
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("load config: %v", err)
		}
	}
	if *pdfPath != "" {
		cfg.Output.PDFPath = *pdfPath
	}
	if *csvPath != "" {
		cfg.Output.CSVPath = *csvPath
	}

	analyzer, err := radfield.NewProfileAnalyzer(cfg.FieldConfig())
	if err != nil {
		log.Fatalf("field analyzer: %v", err)
	}

	pages, err := qa.New(cfg, analyzer).Run(files)
	if err != nil {
		log.Fatalf("batch failed: %v", err)
	}
	if len(pages) == 0 {
		log.Println("No images produced results; nothing written.")
		os.Exit(1)
	}

	builder := report.NewPDFBuilder()
	outcomes := make([]compare.Outcome, 0, len(pages))
	for _, page := range pages {
		if err := builder.AddPage(page); err != nil {
			log.Fatalf("report: %v", err)
		}
		outcomes = append(outcomes, page.Outcome)
	}
	if err := builder.WriteFile(cfg.Output.PDFPath); err != nil {
		log.Fatalf("report: %v", err)
	}
	if err := report.WriteCSV(cfg.Output.CSVPath, outcomes); err != nil {
		log.Fatalf("summary: %v", err)
	}

	fmt.Printf("Analysis complete. Results saved to %s and %s\n", cfg.Output.PDFPath, cfg.Output.CSVPath)
}
