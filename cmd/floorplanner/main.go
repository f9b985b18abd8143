/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"floorplanner/internal/backend"
	"floorplanner/internal/config"
	"floorplanner/internal/crash"
	"floorplanner/internal/domain"
	"floorplanner/internal/export"
	"floorplanner/internal/layout"
	applog "floorplanner/internal/log"
	"floorplanner/internal/plan"
	"floorplanner/internal/roomspec"
	"floorplanner/internal/storage"
	"floorplanner/internal/telemetry"
	"floorplanner/internal/ui"
	"floorplanner/internal/version"
)

func usage() {
	fmt.Println("Floorplanner — interactive floor-plan designer")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  floorplanner version|-v|--version             Show version")
	fmt.Println("  floorplanner init <dir> <name>                Create a new design at <dir> with name <name>")
	fmt.Println("  floorplanner open <dir>                       Open design at <dir> and print a summary")
	fmt.Println("  floorplanner save <dir>                       Re-save design at <dir> (creates backup)")
	fmt.Println("  floorplanner layout <dir> <rooms.txt> [width] Seed areas from a room list, packed into [width] ft (default 40)")
	fmt.Println("  floorplanner export <dir> <png|svg|pdf|bundle> [out]")
	fmt.Println("                                                Export the design; out defaults to exports/plan.<ext>")
	fmt.Println("  floorplanner search <dir> <query>             Full-text search over the design index")
	fmt.Println("  floorplanner publish <dir>                    Publish the design to the configured server")
	fmt.Println("  floorplanner serve                            Run the sync/search server (Postgres)")
	fmt.Println("  floorplanner ui [<dir>]                       Launch desktop UI (build with -tags fyne for full UI)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var dh *storage.DesignHandle
	defer func() { crash.Recover(dh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Floorplanner — interactive floor-plan designer")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			name := args[3]
			l.Info("init design", slog.String("root", abs), slog.String("name", name))
			df := domain.DesignFile{
				Name:       name,
				Areas:      []domain.AreaRecord{},
				CanvasSize: domain.DefaultCanvasSize,
				ExportedAt: time.Now().UTC(),
			}
			h, err := storage.InitDesign(abs, df)
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Println("Created design at", abs)
			return
		case "open":
			h := mustOpen(l, args, 2)
			dh = h
			furniture := 0
			total := 0
			for _, a := range h.Design.Areas {
				furniture += len(a.Furniture)
				total += a.AreaSqFt
			}
			fmt.Printf("Opened design: %s\n", h.Design.Name)
			fmt.Printf("Canvas: %gx%g ft\n", h.Design.CanvasSize.WidthFt, h.Design.CanvasSize.HeightFt)
			fmt.Printf("Areas: %d (%d sqft), furniture: %d\n", len(h.Design.Areas), total, furniture)
			fmt.Println("Root:", h.Root)
			telemetry.DesignOpened(len(h.Design.Areas), furniture)
			return
		case "save":
			h := mustOpen(l, args, 2)
			dh = h
			h.Design.ExportedAt = time.Now().UTC()
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := storage.UpdateIndex(ctx, h.Root, h.Design); err != nil {
				l.Error("update index failed", slog.Any("err", err))
			}
			fmt.Println("Saved design and created a backup of the previous manifest (if any).")
			return
		case "layout":
			if len(args) < 4 {
				fmt.Println("layout requires <dir> and <rooms.txt>")
				usage()
				os.Exit(2)
			}
			bound := 40.0
			if len(args) >= 5 {
				v, err := strconv.ParseFloat(args[4], 64)
				if err != nil || v <= 0 {
					fmt.Println("width must be a positive number of feet")
					os.Exit(2)
				}
				bound = v
			}
			h := mustOpen(l, args, 2)
			dh = h
			if err := seedLayout(h, args[3], bound); err != nil {
				l.Error("layout failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Seeded %d areas on a %gx%g ft canvas.\n",
				len(h.Design.Areas), h.Design.CanvasSize.WidthFt, h.Design.CanvasSize.HeightFt)
			telemetry.LayoutSeeded(len(h.Design.Areas))
			return
		case "export":
			if len(args) < 4 {
				fmt.Println("export requires <dir> and a format (png, svg, pdf, bundle)")
				usage()
				os.Exit(2)
			}
			h := mustOpen(l, args, 2)
			dh = h
			format := strings.ToLower(args[3])
			out := "plan"
			if len(args) >= 5 {
				out = args[4]
			}
			var err error
			switch format {
			case "png":
				err = export.ExportPNG(h, out, export.PNGOptions{IncludeGrid: true, IncludeLabels: true})
			case "svg":
				err = export.ExportSVG(h, out, export.SVGOptions{IncludeGrid: true, IncludeLabels: true})
			case "pdf":
				err = export.ExportPDF(h, out, export.PDFOptions{IncludeGrid: true, IncludeLabels: true})
			case "bundle":
				err = export.ExportBundle(h, out, export.BundleOptions{
					PNG: export.PNGOptions{IncludeGrid: true, IncludeLabels: true},
				})
			default:
				fmt.Println("unknown export format:", format)
				usage()
				os.Exit(2)
			}
			if err != nil {
				l.Error("export failed", slog.String("format", format), slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Exported", format)
			telemetry.DesignExported(format)
			return
		case "search":
			if len(args) < 4 {
				fmt.Println("search requires <dir> and <query>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			results, err := storage.Search(ctx, abs, storage.SearchQuery{Text: strings.Join(args[3:], " ")})
			if err != nil {
				l.Error("search failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			for _, r := range results {
				fmt.Printf("%-12s %-40s %s\n", r.Kind, r.Path, r.Snippet)
			}
			fmt.Printf("%d result(s)\n", len(results))
			return
		case "publish":
			h := mustOpen(l, args, 2)
			dh = h
			if err := publishDesign(h); err != nil {
				l.Error("publish failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "serve":
			if err := backend.Start(); err != nil {
				l.Error("server failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func mustOpen(l *slog.Logger, args []string, idx int) *storage.DesignHandle {
	if len(args) <= idx {
		fmt.Println("missing design directory")
		usage()
		os.Exit(2)
	}
	abs, _ := filepath.Abs(args[idx])
	l.Info("open design", slog.String("root", abs))
	h, err := storage.Open(abs)
	if err != nil {
		l.Error("open failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return h
}

// seedLayout replaces the design's areas with a packed arrangement of the
// rooms listed in the given file and saves the result.
func seedLayout(h *storage.DesignHandle, roomsPath string, boundWidthFt float64) error {
	data, err := os.ReadFile(roomsPath)
	if err != nil {
		return fmt.Errorf("read room list: %w", err)
	}
	spec, errs := roomspec.Parse(string(data))
	if len(errs) > 0 {
		msgs := make([]string, 0, len(errs))
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		return fmt.Errorf("room list has %d problem(s):\n%s", len(errs), strings.Join(msgs, "\n"))
	}
	rooms := spec.Rooms()
	if len(rooms) == 0 {
		return fmt.Errorf("room list is empty")
	}
	reqs := make([]layout.Request, 0, len(rooms))
	for _, r := range rooms {
		reqs = append(reqs, layout.Request{Type: r.Type, WidthFt: r.WidthFt, HeightFt: r.HeightFt, Label: r.Label})
	}
	placed, canvasFt, err := layout.Pack(reqs, boundWidthFt)
	if err != nil {
		return err
	}

	reg := plan.NewRegistry()
	for _, p := range placed {
		if _, cerr := reg.CreateArea(p.Corners(reg.GridSize()), p.Type); cerr != nil {
			return cerr
		}
	}
	h.Design = reg.Encode(h.Design.Name, canvasFt, time.Now().UTC())
	if err := storage.Save(h); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.UpdateIndex(ctx, h.Root, h.Design); err != nil {
		applog.WithComponent("cli").Error("update index failed", slog.Any("err", err))
	}
	return nil
}

// publishDesign pushes the manifest to the configured sync server using the
// stored credentials.
func publishDesign(h *storage.DesignHandle) error {
	cfg, token, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	blob, err := json.Marshal(h.Design)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	timeout := time.Duration(cfg.Backend.TimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client := backend.NewClient(cfg.Backend.BaseURL, token)
	res, err := client.Publish(ctx, blob)
	if err != nil {
		return err
	}
	fmt.Printf("Published design %d at version %d to %s\n", res.ID, res.Version, cfg.Backend.BaseURL)
	telemetry.DesignPublished()
	return nil
}
