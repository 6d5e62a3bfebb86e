// Package main provides the xlsxreport CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/minhkhoavo/xlsxreport/internal/appdir"
	"github.com/minhkhoavo/xlsxreport/pkg/table"
	"github.com/minhkhoavo/xlsxreport/pkg/template"
	"github.com/minhkhoavo/xlsxreport/pkg/writer"
)

var (
	outFile string
	outPath string
	sep     string

	setupAppdir     bool
	overwriteAppdir bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "xlsxreport",
		Short: "Compile formatted Excel reports from csv files and report templates",
	}

	compileCmd := &cobra.Command{
		Use:   "compile [infile] [template]",
		Short: "Create a formatted Excel report from a csv file and a template",
		Long: `Create a formatted Excel report from a csv INFILE and a formatting
TEMPLATE. The TEMPLATE argument is first used to look for a file with the
specified filepath. If no file is found, the xlsxreport app directory is
searched for a file with the corresponding name.`,
		Args: cobra.ExactArgs(2),
		RunE: runCompile,
	}
	compileCmd.Flags().StringVarP(&outFile, "outfile", "o", "", "Name of the report file (default: INFILE with the extension replaced by '.report.xlsx')")
	compileCmd.Flags().StringVar(&outPath, "outpath", "", "Output path of the report file, overrides the outfile option")
	compileCmd.Flags().StringVarP(&sep, "sep", "s", "\t", "Delimiter of the input file")

	validateCmd := &cobra.Command{
		Use:   "validate [template]",
		Short: "Validate a report template file and print detected issues",
		Args:  cobra.ExactArgs(1),
		RunE:  runValidate,
	}

	appdirCmd := &cobra.Command{
		Use:   "appdir",
		Short: "Locate the app directory, optionally create it with the default templates",
		Args:  cobra.NoArgs,
		RunE:  runAppdir,
	}
	appdirCmd.Flags().BoolVar(&setupAppdir, "setup", false, "Create the app directory and copy the default report templates")
	appdirCmd.Flags().BoolVar(&overwriteAppdir, "overwrite", false, "Overwrite existing report templates when used with --setup")

	rootCmd.AddCommand(compileCmd, validateCmd, appdirCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runCompile(cmd *cobra.Command, args []string) error {
	infile, templateArg := args[0], args[1]

	if _, err := os.Stat(infile); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", infile)
	}
	templatePath, err := appdir.LocateTemplate(templateArg)
	if err != nil {
		return err
	}
	reportPath := reportOutputPath(infile, outFile, outPath)

	fmt.Println("Generating formatted Excel report:")
	fmt.Println("----------------------------------")
	fmt.Printf("Input file:    %s\n", infile)
	fmt.Printf("Template file: %s\n", templatePath)
	fmt.Printf("Report file:   %s\n", reportPath)

	delimiter := '\t'
	if sep != "" {
		delimiter = []rune(sep)[0]
	}
	tbl, err := table.ReadCSVFile(infile, delimiter)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}
	tmpl, err := template.Load(templatePath)
	if err != nil {
		return fmt.Errorf("failed to load template: %w", err)
	}

	builder := writer.NewReportBuilder()
	if err := builder.AddTab(writer.Tab{Name: "Report", Table: tbl, Template: tmpl}); err != nil {
		return err
	}
	if err := builder.SaveAs(reportPath); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	templatePath, err := appdir.LocateTemplate(args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Validating report template file: %s\n", templatePath)

	if findings := template.ValidateFile(templatePath); len(findings) > 0 {
		fmt.Println("Error loading template file, validation cannot proceed.")
		printFindings(findings)
		return nil
	}

	tmpl, err := template.Load(templatePath)
	if err != nil {
		return err
	}
	findings := template.Validate(tmpl)
	switch template.MaxLevel(findings) {
	case template.LevelInfo:
		fmt.Println("Template is valid for Excel report generation.")
	case template.LevelWarning:
		fmt.Println("Only non-serious issues detected, template is valid for Excel report generation.")
	default:
		fmt.Println("Errors detected, template is usable for Excel report generation but might lead to an unexpected result.")
	}
	printFindings(findings)
	return nil
}

func printFindings(findings []template.Finding) {
	for _, finding := range findings {
		fmt.Printf("  %-8s %s\n", finding.Level, finding.Description)
	}
}

func runAppdir(cmd *cobra.Command, args []string) error {
	dir, err := appdir.Dir()
	if err != nil {
		return err
	}
	if !setupAppdir {
		if _, err := os.Stat(dir); err == nil {
			fmt.Println(dir)
		} else {
			fmt.Println("App directory not found, run `xlsxreport appdir --setup` to create it.")
		}
		return nil
	}

	if _, err := os.Stat(dir); err == nil {
		fmt.Printf("App directory found at: %s\n", dir)
	} else {
		fmt.Printf("Creating app directory at: %s\n", dir)
	}
	if overwriteAppdir {
		fmt.Println("Copying default report templates to the app directory, overwriting existing files.")
	} else {
		fmt.Println("Copying missing default report templates to the app directory.")
	}
	_, err = appdir.Setup(overwriteAppdir)
	return err
}

func reportOutputPath(infile, outFile, outPath string) string {
	if outPath != "" {
		return outPath
	}
	if outFile != "" {
		return filepath.Join(filepath.Dir(infile), outFile)
	}
	base := filepath.Base(infile)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + ".report.xlsx"
	return filepath.Join(filepath.Dir(infile), name)
}
