package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"primusgen/internal/crosswalk"
	"primusgen/internal/engine"
	"primusgen/internal/llm"
	"primusgen/internal/microrule"
	"primusgen/internal/question"
	"primusgen/internal/spec"
	"primusgen/internal/validate"
)

var (
	moduleNumber  string
	documentName  string
	subModuleName string
	answersPath   string
	outputPath    string
)

func addDocumentFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&moduleNumber, "module", "m", "", "module number (1-7)")
	cmd.Flags().StringVarP(&documentName, "document", "d", "", "document name")
	cmd.Flags().StringVarP(&subModuleName, "submodule", "s", "", "submodule name")
	_ = cmd.MarkFlagRequired("module")
}

func newLoader() *spec.Loader {
	return spec.NewLoader(cfg.Data.SpecDir)
}

func loadVocabulary() (*validate.Vocabulary, error) {
	if cfg.Data.VocabularyPath == "" {
		return validate.DefaultVocabulary(), nil
	}
	return validate.LoadVocabulary(cfg.Data.VocabularyPath)
}

// readAnswers parses a YAML answers file: a flat map of question ID to
// value. YAML's native typing gives us bools and numbers without schema.
func readAnswers(path string) (question.Answers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("answers file: %w", err)
	}
	var answers question.Answers
	if err := yaml.Unmarshal(data, &answers); err != nil {
		return nil, fmt.Errorf("answers file: %w", err)
	}
	return answers, nil
}

func writeOutput(content string) error {
	if outputPath == "" {
		fmt.Println(content)
		return nil
	}
	return os.WriteFile(outputPath, []byte(content), 0644)
}

// questionsCmd prints the questionnaire for a document request.
var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the generated questionnaire for a document",
	RunE: func(cmd *cobra.Command, args []string) error {
		loader := newLoader()
		sub := loader.FindSubmoduleSpecByName(moduleNumber, documentName, subModuleName)
		if sub == nil {
			logger.Warn("no submodule resolved, core questions only",
				zap.String("module", moduleNumber), zap.String("document", documentName))
		}
		checklist, err := loader.LoadChecklist(moduleNumber)
		if err != nil {
			return err
		}

		items := question.Generate(sub, checklist)
		out, err := json.MarshalIndent(items, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(string(out))
	},
}

// generateCmd runs the full generation pipeline.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a compliance document from an answers file",
	RunE: func(cmd *cobra.Command, args []string) error {
		answers, err := readAnswers(answersPath)
		if err != nil {
			return err
		}
		vocab, err := loadVocabulary()
		if err != nil {
			return err
		}

		clientCfg := llm.DefaultConfig(cfg.LLM.APIKey)
		clientCfg.Model = cfg.LLM.Model
		clientCfg.Timeout = cfg.LLMTimeout()
		if cfg.LLM.MaxOutputTokens > 0 {
			clientCfg.MaxOutputTokens = cfg.LLM.MaxOutputTokens
		}
		ctx := context.Background()
		client, err := llm.NewGeminiClient(ctx, clientCfg)
		if err != nil {
			return err
		}

		eng := engine.New(newLoader(), microrule.NewStore(cfg.Data.MicroRulesDir), vocab, client)
		doc, err := eng.Generate(ctx, engine.Request{
			ModuleNumber:  moduleNumber,
			DocumentName:  documentName,
			SubModuleName: subModuleName,
			Answers:       answers,
		})
		if err != nil {
			return err
		}

		logger.Info("document accepted", zap.Int("bytes", len(doc)))
		return writeOutput(doc)
	},
}

// validateCmd validates an existing document file.
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a document against the structural and content rules",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		vocab, err := loadVocabulary()
		if err != nil {
			return err
		}

		doc := string(data)
		scan := vocab.CheckForbiddenPatterns(doc)
		structure := vocab.ValidateStructure(doc)

		report := struct {
			ForbiddenPatterns []validate.ForbiddenMatch `json:"forbidden_patterns,omitempty"`
			Errors            []validate.Error          `json:"errors,omitempty"`
			QualityScore      int                       `json:"quality_score"`
			Valid             bool                      `json:"valid"`
		}{
			ForbiddenPatterns: scan.Matches,
			Errors:            structure.Errors,
			QualityScore:      vocab.ScoreQuality(doc),
			Valid:             structure.Valid && !scan.HasForbiddenPatterns,
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(string(out))
	},
}

// crosswalkCmd builds the compliance crosswalk for a document file.
var crosswalkCmd = &cobra.Command{
	Use:   "crosswalk [file]",
	Short: "Crosswalk a document against its submodule requirements",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		report, err := crosswalk.Generate(newLoader(), string(data), moduleNumber, documentName, subModuleName)
		if err != nil {
			return err
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(string(out))
	},
}

// lintCmd lints a document against the relevant micro-rule groups.
var lintCmd = &cobra.Command{
	Use:   "lint [file]",
	Short: "Lint a document against the relevant micro-rule groups",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		groups := microrule.DetectRelevantGroups(microrule.Context{
			ModuleNumber:  moduleNumber,
			SubmoduleName: subModuleName,
			DocumentName:  documentName,
		})
		report, err := microrule.NewStore(cfg.Data.MicroRulesDir).Lint(string(data), groups)
		if err != nil {
			return err
		}

		logger.Info("lint finished",
			zap.Int("checked", report.CheckedRules),
			zap.Strings("inserted", report.InsertedIDs),
			zap.Strings("missing", report.MissingIDs))
		if len(report.InsertedIDs) > 0 && outputPath != "" {
			return os.WriteFile(outputPath, []byte(report.Document), 0644)
		}
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

func init() {
	addDocumentFlags(questionsCmd)
	addDocumentFlags(generateCmd)
	addDocumentFlags(crosswalkCmd)
	addDocumentFlags(lintCmd)
	generateCmd.Flags().StringVarP(&answersPath, "answers", "a", "", "YAML answers file")
	_ = generateCmd.MarkFlagRequired("answers")
	for _, cmd := range []*cobra.Command{questionsCmd, generateCmd, crosswalkCmd, lintCmd, validateCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (default stdout)")
	}
}
