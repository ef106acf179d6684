/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/valpere/edugen/internal/content"
	"github.com/valpere/edugen/internal/export"
	"github.com/valpere/edugen/internal/markdown"
)

var (
	grade        int
	topic        string
	outputFile   string
	outputFormat string
	printJSON    bool
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate, review and refine content for a topic",
	Long: `Generate an explanation and three multiple-choice questions for a topic
at a grade level (1-12), review them with an LLM, and refine them once when
the review fails with feedback.

Export formats:
  - json        final content as indented JSON
  - markdown    final content and review as markdown
  - html        the markdown export rendered as HTML

The format is taken from --format, or from the --output extension.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig(cmd, map[string]string{
			"structural-check":        "pipeline.structural_check",
			"refine-without-feedback": "pipeline.refine_without_feedback",
		})
		if err != nil {
			return err
		}
		defer log.Sync()

		var format export.Format
		if outputFile != "" {
			format = export.FormatForPath(outputFile)
			if outputFormat != "" {
				if format, err = export.ParseFormat(outputFormat); err != nil {
					return err
				}
			}
		}

		ctx := context.Background()
		pipe := buildPipeline(ctx, cfg, log)

		fmt.Fprintf(os.Stderr, "Generating content for grade %d: %s\n", grade, topic)
		res, err := pipe.Generate(ctx, grade, topic)
		if err != nil {
			return fmt.Errorf("content generation failed: %w", err)
		}

		if printJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}
		} else {
			printResult(os.Stdout, res, grade, strings.TrimSpace(topic))
		}

		if outputFile != "" {
			body, err := export.Render(res, grade, strings.TrimSpace(topic), format)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(outputFile, body, 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
			fmt.Fprintf(os.Stderr, "Exported %s to %s\n", format, outputFile)
		}
		return nil
	},
}

func printResult(w io.Writer, res *content.Result, grade int, topic string) {
	fmt.Fprintln(w, "=== Pipeline Flow ===")
	fmt.Fprintln(w, "Step 1: Generator      Complete")
	fmt.Fprintf(w, "Step 2: Reviewer       %s\n", strings.ToUpper(string(res.InitialVerdict.Status)))
	if res.Refined() {
		fmt.Fprintf(w, "Step 3: Refinement     Complete (review: %s)\n", strings.ToUpper(string(res.RefinedVerdict.Status)))
	} else {
		fmt.Fprintln(w, "Step 3: Refinement     Skipped")
	}

	fmt.Fprintf(w, "\n=== Initial Generation - Grade %d: %s ===\n", grade, topic)
	printRecord(w, res.InitialContent)
	printVerdict(w, res.InitialVerdict)

	fmt.Fprintln(w, "\n=== Final Output ===")
	if res.Refined() {
		fmt.Fprintln(w, "Showing refined content (after addressing feedback)")
	} else if res.InitialVerdict.Passed() {
		fmt.Fprintln(w, "Initial content was approved, no refinement needed")
	} else {
		fmt.Fprintln(w, "Review failed without actionable feedback, showing initial content")
	}
	printRecord(w, res.Final())
	printVerdict(w, res.FinalVerdict())
}

func printRecord(w io.Writer, rec content.Record) {
	fmt.Fprintln(w, "\nExplanation:")
	if text := markdown.ToPlainText([]byte(rec.Explanation)); text != "" {
		fmt.Fprintln(w, text)
	} else {
		fmt.Fprintln(w, "No explanation generated")
	}

	fmt.Fprintln(w, "\nMultiple Choice Questions:")
	if len(rec.Questions) == 0 {
		fmt.Fprintln(w, "  (none)")
	}
	for i, q := range rec.Questions {
		fmt.Fprintf(w, "  %d. %s\n", i+1, q.Prompt)
		for _, opt := range q.Options {
			fmt.Fprintf(w, "     - %s\n", opt)
		}
		fmt.Fprintf(w, "     Correct Answer: %s\n", q.Answer)
	}
}

func printVerdict(w io.Writer, v content.Verdict) {
	fmt.Fprintf(w, "\nReview: %s\n", strings.ToUpper(string(v.Status)))
	if len(v.Feedback) == 0 {
		fmt.Fprintln(w, "  No issues found")
		return
	}
	for _, fb := range v.Feedback {
		fmt.Fprintf(w, "  * %s\n", fb)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().IntVarP(&grade, "grade", "g", 4, "Target grade level (1-12)")
	generateCmd.Flags().StringVarP(&topic, "topic", "t", "Types of angles", "Educational topic")
	generateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write the final content to this file")
	generateCmd.Flags().StringVarP(&outputFormat, "format", "f", "", "Export format: json, markdown or html (default from --output extension)")
	generateCmd.Flags().BoolVar(&printJSON, "json", false, "Print the whole pipeline result as JSON")
	generateCmd.Flags().Bool("structural-check", false, "Fail reviews of structurally invalid content")
	generateCmd.Flags().Bool("refine-without-feedback", false, "Refine failed content even when the reviewer gave no feedback")
}
