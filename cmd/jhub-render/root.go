package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/config"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/edtypes"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/images"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/render"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/tiptap"
)

// options - общие флаги всех команд.
type options struct {
	sanitize     bool
	minify       bool
	imageBaseURL string
	trace        bool
	metrics      bool

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "jhub-render",
		Short:        "Render, export and check TipTap JSON documents",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if opts.trace {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			cfg, err := config.ReadConfig()
			if err != nil {
				return fmt.Errorf("read config: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if opts.metrics {
				logMetrics(prometheus.DefaultGatherer)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.BoolVar(&opts.sanitize, "sanitize", true, "Sanitize rendered HTML")
	flags.BoolVar(&opts.minify, "minify", false, "Minify rendered HTML")
	flags.StringVar(&opts.imageBaseURL, "image-base-url", "", "Image API base URL, overrides IMAGE_API_URL")
	flags.BoolVar(&opts.trace, "trace", false, "Verbose logs")
	flags.BoolVar(&opts.metrics, "metrics", false, "Log editor counters after the command")

	root.AddCommand(
		newHTMLCmd(opts),
		newMarkdownCmd(opts),
		newStatsCmd(opts),
		newValidateCmd(opts),
	)
	return root
}

// readInput читает документ из файла или stdin, если путь не задан или равен "-".
func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}

func loadDocument(cmd *cobra.Command, args []string) (*edtypes.Document, error) {
	raw, err := readInput(cmd, args)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc, err := tiptap.ParseBytes(raw)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// newImageCache выбирает источник изображений: флаг, MinIO, затем IMAGE_API_URL.
// Без источника возвращает nil, токены рендерятся заглушкой.
func (o *options) newImageCache() (*images.Cache, error) {
	var resolver images.Resolver
	maxBytes := int64(o.cfg.MaxImageBytes)

	switch {
	case o.imageBaseURL != "":
		resolver = images.NewHTTPResolver(o.imageBaseURL, maxBytes)
	case o.cfg.MinioEnabled():
		mr, err := images.NewMinioResolver(o.cfg.MinioEndpoint, o.cfg.MinioAccessKey, o.cfg.MinioSecretKey, o.cfg.MinioUseSSL, o.cfg.MinioBucketName, maxBytes)
		if err != nil {
			return nil, fmt.Errorf("init minio resolver: %w", err)
		}
		resolver = mr
	case o.cfg.ImageAPIURL != "":
		resolver = images.NewHTTPResolver(o.cfg.ImageAPIURL, maxBytes)
	default:
		return nil, nil
	}
	return images.NewCache(resolver, o.cfg.ImageResolveTimeout()), nil
}

// newRenderer собирает рендер. Токены изображений загружаются заранее,
// если предзагрузка не отключена. Возвращенную функцию нужно вызвать после рендера.
func (o *options) newRenderer(ctx context.Context, doc *edtypes.Document) (*render.Renderer, func(), error) {
	renderOpts := []render.Option{
		render.WithPlaceholder(o.cfg.Editor.ImagePlaceholder),
		render.WithDefaultLanguage(o.cfg.Editor.DefaultCodeLanguage),
		render.WithSanitize(o.sanitize),
		render.WithMinify(o.minify),
	}

	cache, err := o.newImageCache()
	if err != nil {
		return nil, nil, err
	}
	if cache == nil {
		return render.New(renderOpts...), func() {}, nil
	}

	if tokens := imageTokens(doc); len(tokens) > 0 && !o.cfg.ImagePrefetchDisable {
		slog.Debug("Prefetch images", "count", len(tokens))
		cache.Prefetch(tokens...)
		waitCache(ctx, cache)
	}

	release := func() {
		cache.Close()
		cache.Wait()
	}
	return render.New(append(renderOpts, render.WithImages(cache))...), release, nil
}

func waitCache(ctx context.Context, cache *images.Cache) {
	done := make(chan struct{})
	go func() {
		cache.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		cache.Close()
		<-done
	}
}

// imageTokens - src изображений, которые не являются готовыми ссылками.
func imageTokens(doc *edtypes.Document) []string {
	var tokens []string
	seen := make(map[string]struct{})
	doc.Walk(func(n *edtypes.Node) bool {
		if n.Type != edtypes.ImageNode {
			return true
		}
		src := strings.TrimSpace(n.Attrs.String("src"))
		if src == "" || render.IsRemoteURL(src) || strings.HasPrefix(src, images.DataImagePrefix) {
			return true
		}
		if _, ok := seen[src]; !ok {
			seen[src] = struct{}{}
			tokens = append(tokens, src)
		}
		return true
	})
	return tokens
}

func logMetrics(g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		slog.Error("Gather metrics", "err", err)
		return
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "jhub_editor_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			attrs := []any{"name", mf.GetName(), "value", m.GetCounter().GetValue()}
			for _, l := range m.GetLabel() {
				attrs = append(attrs, l.GetName(), l.GetValue())
			}
			slog.Info("Editor metric", attrs...)
		}
	}
}
