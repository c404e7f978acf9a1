package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/flatgeobuf"
)

var serveCmd = &cobra.Command{
	Use:   "serve <file>",
	Short: "Serve a geometry file over HTTP",
	Long: `Loads <file> once and serves it as /data.fgb, /data.wkb (hex lines),
/data.arrow (Arrow IPC stream) and /info (JSON summary).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions()
		if err != nil {
			return err
		}
		arr, err := readArray(cmd.Context(), args[0], opts)
		if err != nil {
			return err
		}

		h, err := newDataHandler(arr, conf.GetString("serve.name"))
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := &http.Server{
			Addr:              conf.GetString("serve.addr"),
			Handler:           h,
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("file", args[0]),
			zap.Int("rows", arr.Len()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	flag := serveCmd.Flags()
	flag.String("addr", ":8080", "Listen address")
	flag.String("name", "", "Layer name written to the FlatGeobuf header")
	for _, name := range []string{"addr", "name"} {
		if err := conf.BindPFlag("serve."+name, flag.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// newDataHandler encodes arr once per format and serves the results.
func newDataHandler(arr geoarrow.Array, name string) (http.Handler, error) {
	var fgb, wkbHex, ipcStream bytes.Buffer

	fgbOpts := flatgeobuf.DefaultOptions()
	fgbOpts.Name = name
	if err := flatgeobuf.WriteArray(&fgb, arr, fgbOpts); err != nil {
		return nil, err
	}
	w, err := geoarrow.ToWKB(arr, nil)
	if err != nil {
		return nil, err
	}
	if err := writeHexWKB(&wkbHex, w); err != nil {
		return nil, err
	}
	if err := writeArrowStream(&ipcStream, arr); err != nil {
		return nil, err
	}
	info, err := json.Marshal(summarize(arr))
	if err != nil {
		return nil, err
	}

	serve := func(contentType string, body []byte) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			w.Header().Set("Access-Control-Allow-Origin", "*")
			if _, err := w.Write(body); err != nil {
				logger.Warn("write response", zap.String("path", r.URL.Path), zap.Error(err))
			}
		}
	}

	mux := http.NewServeMux()
	mux.Handle("/data.fgb", serve("application/octet-stream", fgb.Bytes()))
	mux.Handle("/data.wkb", serve("text/plain; charset=utf-8", wkbHex.Bytes()))
	mux.Handle("/data.arrow", serve("application/vnd.apache.arrow.stream", ipcStream.Bytes()))
	mux.Handle("/info", serve("application/json", info))
	return mux, nil
}
