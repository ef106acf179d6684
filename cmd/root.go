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
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var configFile string

var rootCmd = &cobra.Command{
	Use:   "edugen",
	Short: "CLI Educational Content Generator",
	Long: `A CLI application that generates a grade-appropriate explanation and
three multiple-choice questions for a topic, has an LLM reviewer grade the
result, and refines the content once when the review fails.

Supported backends: Groq, OpenRouter, OpenAI, Ollama (LLM)

Use "edugen generate --help" for generation options.`,
	Version:      version,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $HOME/.edugen.yaml)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log mode: dev or prod")
	rootCmd.PersistentFlags().StringP("provider", "p", "", "Completion backend: groq, openrouter, openai or ollama")
	rootCmd.PersistentFlags().String("api-key", "", "Backend API key")
	rootCmd.PersistentFlags().String("base-url", "", "Backend base URL (provider default if empty)")
	rootCmd.PersistentFlags().StringP("model", "m", "", "Model name")
	rootCmd.PersistentFlags().StringP("language", "l", "", "Content language code (ISO 639-1)")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Per-call backend timeout")
}
