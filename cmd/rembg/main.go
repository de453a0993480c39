package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/SeaCloudHub/rembg/adapters/services"
	"github.com/SeaCloudHub/rembg/domain/rembg"
	"github.com/SeaCloudHub/rembg/pkg/app"
	"github.com/SeaCloudHub/rembg/pkg/config"
	"github.com/SeaCloudHub/rembg/pkg/dataurl"
	"github.com/SeaCloudHub/rembg/pkg/logger"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	in := flag.String("in", "", "input image")
	out := flag.String("out", "", "output file, prints a data URL when empty")
	flag.Parse()

	if *in == "" {
		flag.Usage()
		os.Exit(2)
	}

	applog, err := logger.NewAppLogger()
	if err != nil {
		log.Fatalf("cannot load config: %v\n", err)
	}
	defer logger.Sync(applog)

	cfg, err := config.LoadConfig()
	if err != nil {
		applog.Fatal(err)
	}

	remover, err := services.NewRemoverService(cfg, applog)
	if err != nil {
		applog.Fatal(err)
	}

	if err := run(context.Background(), remover, *in, *out, os.Stdout); err != nil {
		applog.Fatalw("cannot remove background", zap.Error(err))
	}
}

func run(ctx context.Context, remover rembg.Service, in, out string, stdout io.Writer) error {
	f, err := os.Open(in)
	if err != nil {
		return errors.Wrap(err, "open input")
	}
	defer f.Close()

	mimeType, r, err := app.DetectContentType(f)
	if err != nil {
		return errors.Wrap(err, "detect content type")
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "read input")
	}

	res, err := remover.RemoveBackground(ctx, &rembg.Image{
		Name:     filepath.Base(in),
		MimeType: mimeType,
		Data:     data,
	})
	if err != nil {
		return err
	}

	if res == nil {
		return rembg.ErrEmptyResult
	}

	if out != "" {
		return errors.Wrap(os.WriteFile(out, res.Data, 0o644), "write output")
	}

	resType := res.MimeType
	if resType == "" {
		resType = app.ContentType("", res.Data)
	}

	_, err = fmt.Fprintln(stdout, dataurl.Encode(resType, res.Data))

	return err
}
