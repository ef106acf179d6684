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
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/valpere/edugen/internal/completion"
	"github.com/valpere/edugen/internal/config"
	"github.com/valpere/edugen/internal/generator"
	"github.com/valpere/edugen/internal/logger"
	"github.com/valpere/edugen/internal/pipeline"
	"github.com/valpere/edugen/internal/reviewer"
)

// persistentBindings maps root flags to config keys.
var persistentBindings = map[string]string{
	"log-mode": "log_mode",
	"provider": "provider",
	"api-key":  "api_key",
	"base-url": "base_url",
	"model":    "model",
	"language": "language",
	"timeout":  "timeout",
}

// loadConfig reads the config file and environment, applies explicitly set
// flags from cmd on top, and builds the logger. extra maps command-local
// flags to config keys.
func loadConfig(cmd *cobra.Command, extra map[string]string) (*config.Config, *logger.Logger, error) {
	v, err := config.NewViper(configFile)
	if err != nil {
		return nil, nil, err
	}

	for _, bindings := range []map[string]string{persistentBindings, extra} {
		for flag, key := range bindings {
			if f := cmd.Flags().Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return nil, nil, err
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

// buildPipeline wires the completion backend, generator and reviewer from
// cfg into a pipeline.
func buildPipeline(ctx context.Context, cfg *config.Config, log *logger.Logger) *pipeline.Pipeline {
	svc := cfg.NewService()

	if ollama, ok := svc.(*completion.OllamaService); ok {
		checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := ollama.IsAvailable(checkCtx); err != nil {
			log.Warn("ollama backend not reachable", "base_url", cfg.BaseURLFor(), "error", err)
		}
	}

	model := cfg.Model
	if m, ok := svc.(interface{ Model() string }); ok {
		model = m.Model()
	}

	log.Debug("pipeline configured",
		"provider", cfg.Provider,
		"model", model,
		"language", cfg.Language,
		"structural_check", cfg.Pipeline.StructuralCheck,
		"refine_without_feedback", cfg.Pipeline.RefineWithoutFeedback,
	)

	return pipeline.New(
		generator.New(svc, cfg.Generation.Temperature, cfg.Generation.MaxTokens),
		reviewer.New(svc, cfg.Review.Temperature, cfg.Review.MaxTokens),
		pipeline.Config{
			Language:              cfg.Language,
			StructuralCheck:       cfg.Pipeline.StructuralCheck,
			RefineWithoutFeedback: cfg.Pipeline.RefineWithoutFeedback,
			Logger:                log,
		},
	)
}
