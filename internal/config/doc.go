// Package config loads the settings for the Skye report tools.
//
// Values are layered, later sources winning:
//
//  1. Built-in defaults (Default)
//  2. YAML file: the -config flag, else config.yaml or configs/config.yaml
//  3. A .env file in the working directory (joho/godotenv)
//  4. Process environment, prefixed SKYE_ (kelseyhightower/envconfig)
//
// For example:
//
//	SKYE_LOGGING_LEVEL=debug
//	SKYE_PIPELINE_PER_BAR_COGS=2.5172
//	SKYE_PIPELINE_SENDOUT_KEYWORDS=gtm,sales team,marketing
//
// PipelineConfig carries the business constants and converts to the
// read-only domain.ReconcileRules through Rules.
package config
