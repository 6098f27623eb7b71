// Command glotmark annotates a source file with inline comment translations.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/glotmark/glotmark"
	"github.com/glotmark/glotmark/backend"
	"github.com/glotmark/glotmark/cache"
	"github.com/glotmark/glotmark/extract"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("glotmark", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Flags override config-file and environment values.
	targetLang := fs.String("lang", "", "Target language (e.g. Vietnamese, ja, es)")
	mode := fs.String("mode", "", "Decoration mode: inline or highlighted")
	backendName := fs.String("backend", "", "Backend: ollama, openai or mock")
	model := fs.String("model", "", "Model name for the selected backend")
	apiKey := fs.String("api-key", "", "OpenAI API key (default: OPENAI_API_KEY env)")
	baseURL := fs.String("base-url", "", "Backend base URL override")
	cachePath := fs.String("cache", "", "Cache file path (default: ~/.glotmark/cache.json)")
	noCache := fs.Bool("no-cache", false, "Disable the persistent cache")
	configPath := fs.String("config", "", "Config file path")
	dryRun := fs.Bool("dry-run", false, "List extracted fragments without calling a backend")
	diffFile := fs.String("diff", "", "Compare fragments with a previous version of the file")
	jsonOutput := fs.Bool("json", false, "Output result as JSON")
	quiet := fs.Bool("quiet", false, "Suppress progress output")
	showVersion := fs.Bool("version", false, "Show version")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(stdout, "%s %s\n", glotmark.Name, glotmark.FullVersion())
		return nil
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	applyFlag(cfg, "target_language", *targetLang)
	applyFlag(cfg, "mode", *mode)
	applyFlag(cfg, "backend", *backendName)
	applyFlag(cfg, "model", *model)
	applyFlag(cfg, "api_key", *apiKey)
	applyFlag(cfg, "base_url", *baseURL)
	applyFlag(cfg, "cache_path", *cachePath)

	if cfg.GetString("target_language") == "" && !*dryRun && *diffFile == "" {
		fs.Usage()
		return fmt.Errorf("--lang is required")
	}

	// Input file
	if fs.NArg() == 0 {
		return fmt.Errorf("a source file argument is required")
	}
	inputPath := fs.Arg(0)
	data, err := os.ReadFile(inputPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	text := string(data)
	langID := languageIDFromPath(inputPath)

	scanner := extract.New()

	if *diffFile != "" {
		return runDiff(scanner, text, *diffFile, inputPath, langID, stdout, *jsonOutput)
	}
	if *dryRun {
		return runDryRun(scanner, text, inputPath, langID, stdout, *jsonOutput)
	}

	store, err := openCache(cfg, *noCache)
	if err != nil {
		return err
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return err
	}

	decorationMode := glotmark.DecorationMode(cfg.GetString("mode"))
	switch decorationMode {
	case glotmark.ModeInline, glotmark.ModeHighlighted:
	default:
		return fmt.Errorf("invalid mode %q (want inline or highlighted)", decorationMode)
	}

	settings := glotmark.StaticSettings{
		TargetLanguage: cfg.GetString("target_language"),
		DecorationMode: decorationMode,
		CacheTTL:       cfg.GetDuration("cache_ttl"),
		MaxCacheSize:   cfg.GetInt("cache_size"),
		Backend:        cfg.GetString("backend"),
	}

	sink := &collectingSink{}
	logLevel := slog.LevelWarn
	if *quiet {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: logLevel}))

	annotator := glotmark.NewAnnotator(scanner, store, registry, sink,
		glotmark.WithSettings(settings),
		glotmark.WithLogger(logger),
	)
	defer annotator.Close()

	view := &fileView{uri: inputPath, text: text, languageID: langID}

	if !*quiet {
		fmt.Fprintf(stderr, "Annotating %s to %s...\n", filepath.Base(inputPath), settings.TargetLanguage)
	}

	start := time.Now()
	annotator.SetActiveView(context.Background(), view)
	elapsed := time.Since(start)
	decorations := annotator.Applied()

	if *jsonOutput {
		return outputJSON(stdout, inputPath, settings.TargetLanguage, decorations, elapsed)
	}

	printAnnotated(stdout, text, decorations)

	if !*quiet {
		fmt.Fprintf(stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
		fmt.Fprintf(stderr, "  Annotations: %d\n", len(decorations))
		fmt.Fprintf(stderr, "  Cache size:  %d\n", store.Size())
	}

	return nil
}

// loadConfig reads the optional config file and environment, with defaults.
func loadConfig(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault("target_language", "")
	v.SetDefault("mode", string(glotmark.ModeInline))
	v.SetDefault("backend", "ollama")
	v.SetDefault("model", "")
	v.SetDefault("base_url", "")
	v.SetDefault("cache_path", defaultCachePath())
	v.SetDefault("cache_ttl", 7*24*time.Hour)
	v.SetDefault("cache_size", 1000)
	v.SetDefault("requests_per_minute", 60)

	v.SetEnvPrefix("GLOTMARK")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		return v, nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".glotmark"))
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}
	return v, nil
}

func applyFlag(v *viper.Viper, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "glotmark-cache.json"
	}
	return filepath.Join(home, ".glotmark", "cache.json")
}

func openCache(cfg *viper.Viper, disabled bool) (*cache.Store, error) {
	var persister cache.Persister
	if !disabled {
		persister = cache.NewFilePersister(cfg.GetString("cache_path"))
	}
	store, err := cache.NewStore(cache.Config{
		TTL:       cfg.GetDuration("cache_ttl"),
		MaxSize:   cfg.GetInt("cache_size"),
		Persister: persister,
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

func buildRegistry(cfg *viper.Viper) (*backend.Registry, error) {
	registry := backend.NewRegistry("ollama")

	registry.Register("ollama", backend.NewOllama(backend.OllamaConfig{
		BaseURL: cfg.GetString("base_url"),
		Model:   cfg.GetString("model"),
	}))
	registry.Register("mock", backend.NewMock())

	key := cfg.GetString("api_key")
	if key == "" {
		key = os.Getenv("OPENAI_API_KEY")
	}
	if key != "" {
		openaiBackend := backend.NewOpenAI(backend.OpenAIConfig{
			APIKey:  key,
			Model:   cfg.GetString("model"),
			BaseURL: cfg.GetString("base_url"),
		})
		// Retry transient failures, and keep repeated passes within the
		// provider's request budget.
		wrapped := glotmark.NewRateLimitedBackend(
			glotmark.NewRetryableBackend(openaiBackend, glotmark.DefaultRetryConfig()),
			glotmark.RateLimitConfig{RequestsPerMinute: cfg.GetInt("requests_per_minute")},
		)
		registry.Register("openai", wrapped)
	} else if cfg.GetString("backend") == "openai" {
		return nil, fmt.Errorf("OpenAI API key required (--api-key or OPENAI_API_KEY env)")
	}

	return registry, nil
}

// runDryRun lists extracted fragments without touching any backend.
func runDryRun(scanner *extract.Scanner, text, inputPath, langID string, stdout io.Writer, jsonOut bool) error {
	fragments, err := scanner.Extract(text, langID)
	if err != nil {
		return fmt.Errorf("extracting fragments: %w", err)
	}

	if jsonOut {
		type dryRunOutput struct {
			InputFile     string   `json:"input_file"`
			LanguageID    string   `json:"language_id"`
			FragmentCount int      `json:"fragment_count"`
			Texts         []string `json:"texts"`
		}
		texts := make([]string, len(fragments))
		for i, f := range fragments {
			texts[i] = f.Text
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(dryRunOutput{
			InputFile:     filepath.Base(inputPath),
			LanguageID:    langID,
			FragmentCount: len(fragments),
			Texts:         texts,
		})
	}

	fmt.Fprintf(stdout, "Dry run: %s (%s)\n", filepath.Base(inputPath), langID)
	fmt.Fprintf(stdout, "Found %d translatable fragments:\n\n", len(fragments))
	for i, f := range fragments {
		text := f.Text
		if len(text) > 60 {
			text = text[:57] + "..."
		}
		fmt.Fprintf(stdout, "%3d. line %d: %q\n", i+1, f.Range.StartLine+1, text)
	}
	return nil
}

// runDiff compares fragment sets between the file and a previous version.
func runDiff(scanner *extract.Scanner, newText, oldPath, inputPath, langID string, stdout io.Writer, jsonOut bool) error {
	oldData, err := os.ReadFile(oldPath) // #nosec G304 - CLI tool reads user-specified files
	if err != nil {
		return fmt.Errorf("reading previous version: %w", err)
	}

	oldFragments, err := scanner.Extract(string(oldData), langID)
	if err != nil {
		return fmt.Errorf("scanning previous version: %w", err)
	}
	newFragments, err := scanner.Extract(newText, langID)
	if err != nil {
		return fmt.Errorf("scanning current version: %w", err)
	}

	diff := glotmark.DiffFragments(oldFragments, newFragments)
	stats := diff.Stats()

	if jsonOut {
		type diffOutput struct {
			InputFile        string   `json:"input_file"`
			PreviousFile     string   `json:"previous_file"`
			Added            int      `json:"added"`
			Removed          int      `json:"removed"`
			Modified         int      `json:"modified"`
			Unchanged        int      `json:"unchanged"`
			NeedsTranslation []string `json:"needs_translation"`
		}
		out := diffOutput{
			InputFile:    filepath.Base(inputPath),
			PreviousFile: filepath.Base(oldPath),
			Added:        stats.Added,
			Removed:      stats.Removed,
			Modified:     stats.Modified,
			Unchanged:    stats.Unchanged,
		}
		for _, f := range diff.NeedsTranslation() {
			out.NeedsTranslation = append(out.NeedsTranslation, f.Text)
		}
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(stdout, "Diff: %s vs %s\n\n", filepath.Base(inputPath), filepath.Base(oldPath))
	fmt.Fprintf(stdout, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(stdout, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(stdout, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(stdout, "  Modified:  %d\n", stats.Modified)

	if !diff.HasChanges() {
		fmt.Fprintf(stdout, "\nNo changes. All annotations are up to date.\n")
		return nil
	}

	fmt.Fprintf(stdout, "\nNeeds translation: %d fragments\n", len(diff.NeedsTranslation()))
	for _, f := range diff.Added {
		fmt.Fprintf(stdout, "  + %q\n", clip(f.Text, 50))
	}
	for _, m := range diff.Modified {
		fmt.Fprintf(stdout, "  ~ %q -> %q\n", clip(m.Old.Text, 30), clip(m.New.Text, 30))
	}
	for _, f := range diff.Removed {
		fmt.Fprintf(stdout, "  - %q\n", clip(f.Text, 50))
	}
	return nil
}

func clip(s string, n int) string {
	if len(s) > n {
		return s[:n-3] + "..."
	}
	return s
}

// printAnnotated writes the source with decorations appended to their lines.
func printAnnotated(w io.Writer, text string, decorations []glotmark.DecorationOption) {
	byLine := make(map[int][]string)
	for _, d := range decorations {
		byLine[d.Range.EndLine] = append(byLine[d.Range.EndLine], d.Text)
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		fmt.Fprint(w, strings.TrimRight(line, "\r"))
		for _, t := range byLine[i] {
			fmt.Fprintf(w, "  %s", t)
		}
		if i < len(lines)-1 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
}

// outputJSON writes the annotation result as JSON.
func outputJSON(w io.Writer, inputPath, lang string, decorations []glotmark.DecorationOption, elapsed time.Duration) error {
	type annotation struct {
		Line int    `json:"line"`
		Text string `json:"text"`
	}
	type jsonOut struct {
		InputFile   string       `json:"input_file"`
		TargetLang  string       `json:"target_lang"`
		Annotations []annotation `json:"annotations"`
		ElapsedMs   int64        `json:"elapsed_ms"`
	}

	out := jsonOut{
		InputFile:  filepath.Base(inputPath),
		TargetLang: lang,
		ElapsedMs:  elapsed.Milliseconds(),
	}
	for _, d := range decorations {
		out.Annotations = append(out.Annotations, annotation{Line: d.Range.EndLine + 1, Text: d.Text})
	}
	sort.Slice(out.Annotations, func(i, j int) bool { return out.Annotations[i].Line < out.Annotations[j].Line })

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// languageIDFromPath maps a file extension to a host language identifier.
func languageIDFromPath(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	ids := map[string]string{
		".c": "c", ".h": "c", ".cpp": "cpp", ".cc": "cpp", ".hpp": "cpp",
		".cs": "csharp", ".java": "java", ".js": "javascript", ".jsx": "javascriptreact",
		".ts": "typescript", ".tsx": "typescriptreact", ".go": "go", ".rs": "rust",
		".swift": "swift", ".kt": "kotlin", ".scala": "scala", ".php": "php",
		".dart": "dart", ".json": "json", ".css": "css", ".scss": "scss",
		".py": "python", ".rb": "ruby", ".pl": "perl", ".sh": "shellscript",
		".bash": "shellscript", ".yaml": "yaml", ".yml": "yaml", ".toml": "toml",
		".r": "r", ".ex": "elixir", ".exs": "elixir",
		".sql": "sql", ".lua": "lua", ".hs": "haskell", ".elm": "elm",
		".html": "html", ".xml": "xml",
	}
	if id, ok := ids[ext]; ok {
		return id
	}
	return "plaintext"
}

// fileView is a DocumentView over one file with everything visible.
type fileView struct {
	uri        string
	text       string
	languageID string
}

func (v *fileView) URI() string        { return v.uri }
func (v *fileView) Text() string       { return v.text }
func (v *fileView) LanguageID() string { return v.languageID }
func (v *fileView) VisibleRanges() []glotmark.LineRange {
	return []glotmark.LineRange{{StartLine: 0, EndLine: strings.Count(v.text, "\n")}}
}

// collectingSink records the last applied decoration set.
type collectingSink struct {
	decorations []glotmark.DecorationOption
}

func (s *collectingSink) Apply(_ string, _ glotmark.DecorationMode, decorations []glotmark.DecorationOption) {
	s.decorations = decorations
}

func (s *collectingSink) Clear(_ string) {
	s.decorations = nil
}
