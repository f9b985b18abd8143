//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"floorplanner/internal/backend"
	"floorplanner/internal/catalog"
	"floorplanner/internal/config"
	"floorplanner/internal/crash"
	"floorplanner/internal/domain"
	"floorplanner/internal/export"
	"floorplanner/internal/geometry"
	"floorplanner/internal/layout"
	applog "floorplanner/internal/log"
	"floorplanner/internal/roomspec"
	"floorplanner/internal/storage"
	"floorplanner/internal/telemetry"
	"floorplanner/internal/undo"
	"floorplanner/internal/version"
)

// Run starts the Fyne-based desktop editor.
func Run(designDir string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	cfg, _, cfgErr := config.Load()
	if cfgErr != nil {
		l.Error("load config failed, using defaults", slog.Any("err", cfgErr))
		cfg = config.Defaults()
	}

	var dh *storage.DesignHandle
	defer func() { crash.Recover(dh) }()

	fyneApp := app.NewWithID("floorplanner")
	w := fyneApp.NewWindow("Floorplanner")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	pc := NewPlanCanvas()
	pc.OnError = func(err error) { dialog.ShowError(err, w) }

	dirty := false

	// Undo snapshots capture the whole design. The live state is always the
	// top of the undo stack, so undo pops twice and rebalances via Redo.
	undoMgr := undo.NewManager(undo.Config{})

	designName := func() string {
		if dh != nil {
			return dh.Design.Name
		}
		return "Untitled"
	}
	designCanvas := func() domain.CanvasSizeFt {
		if dh != nil {
			return dh.Design.CanvasSize
		}
		return domain.DefaultCanvasSize
	}
	snapshotBlob := func() []byte {
		df := pc.registry.Encode(designName(), designCanvas(), time.Now().UTC())
		b, err := json.Marshal(df)
		if err != nil {
			l.Error("marshal snapshot failed", slog.Any("err", err))
			return nil
		}
		return b
	}
	pushSnapshot := func() {
		if b := snapshotBlob(); b != nil {
			undoMgr.Push(undo.Snapshot{Blob: b, TS: time.Now()})
		}
	}
	resetUndo := func() {
		undoMgr.Clear()
		pushSnapshot()
	}
	applyBlob := func(blob []byte) {
		var df domain.DesignFile
		if err := json.Unmarshal(blob, &df); err != nil {
			l.Error("unmarshal snapshot failed", slog.Any("err", err))
			return
		}
		if err := pc.registry.Import(df); err != nil {
			l.Error("apply snapshot failed", slog.Any("err", err))
			return
		}
		pc.ctrl.Select("")
		pc.Refresh()
	}

	// Areas sidebar
	areaDisplay := []string{}
	areaIDs := []string{}
	selectedArea := -1
	areasList := widget.NewList(
		func() int { return len(areaDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(areaDisplay) {
				o.(*widget.Label).SetText(areaDisplay[i])
			}
		},
	)
	totalLabel := widget.NewLabel("")
	refreshAreas := func() {
		areaDisplay = areaDisplay[:0]
		areaIDs = areaIDs[:0]
		total := 0
		for _, a := range pc.registry.Areas() {
			areaDisplay = append(areaDisplay, fmt.Sprintf("%s (%d sqft)", a.Type, a.AreaSqFt))
			areaIDs = append(areaIDs, a.ID)
			total += a.AreaSqFt
		}
		areasList.Refresh()
		totalLabel.SetText(fmt.Sprintf("Total: %d sqft", total))
	}
	areasList.OnSelected = func(id widget.ListItemID) {
		selectedArea = int(id)
	}
	areasList.OnUnselected = func(widget.ListItemID) { selectedArea = -1 }

	// Furniture inspector
	nameEntry := widget.NewEntry()
	nameEntry.SetPlaceHolder("Name")
	colorEntry := widget.NewEntry()
	colorEntry.SetPlaceHolder("#rrggbb")
	selLabel := widget.NewLabel("No selection")
	refreshInspector := func() {
		id, ok := pc.ctrl.Selected()
		if !ok {
			selLabel.SetText("No selection")
			nameEntry.SetText("")
			colorEntry.SetText("")
			return
		}
		f, a, found := pc.registry.FurnitureByID(id)
		if !found {
			selLabel.SetText("No selection")
			return
		}
		selLabel.SetText(fmt.Sprintf("%s in %s", f.Name, a.Type))
		nameEntry.SetText(f.Name)
		colorEntry.SetText(string(f.Color))
	}

	markMutated := func(what string) {
		dirty = true
		pushSnapshot()
		refreshAreas()
		refreshInspector()
		if what != "" {
			status.SetText(what)
		}
	}
	pc.OnMutated = func() { markMutated("") }
	pc.OnSelected = func(string) { refreshInspector() }
	pc.session.OnClosed(func(a *domain.Area) { telemetry.AreaCreated(a.AreaSqFt) })

	applyBtn := widget.NewButton("Apply", func() {
		id, ok := pc.ctrl.Selected()
		if !ok {
			return
		}
		if n := strings.TrimSpace(nameEntry.Text); n != "" {
			pc.registry.RenameFurniture(id, n)
		}
		if cstr := strings.TrimSpace(colorEntry.Text); cstr != "" {
			c := domain.Color(cstr)
			if !c.Valid() {
				dialog.ShowInformation("Color", "Colors are #rrggbb hex strings.", w)
				return
			}
			pc.registry.RecolorFurniture(id, c)
		}
		pc.Refresh()
		markMutated("Furniture updated.")
	})
	deleteSelected := func() {
		id, ok := pc.ctrl.Selected()
		if !ok {
			return
		}
		pc.registry.DeleteFurniture(id)
		pc.ctrl.Select("")
		pc.Refresh()
		markMutated("Furniture deleted.")
	}
	deleteBtn := widget.NewButton("Delete", deleteSelected)

	// Catalog pane
	items := catalog.Builtin().Items()
	itemDisplay := make([]string, len(items))
	for i, it := range items {
		itemDisplay[i] = fmt.Sprintf("%s (%gx%g ft)", it.Name, it.WidthFt, it.HeightFt)
	}
	selectedItem := -1
	catalogList := widget.NewList(
		func() int { return len(itemDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) { o.(*widget.Label).SetText(itemDisplay[i]) },
	)
	catalogList.OnSelected = func(id widget.ListItemID) { selectedItem = int(id) }
	placeBtn := widget.NewButton("Place in Area", func() {
		if selectedItem < 0 || selectedItem >= len(items) {
			dialog.ShowInformation("Place", "Pick a catalog item first.", w)
			return
		}
		if selectedArea < 0 || selectedArea >= len(areaIDs) {
			dialog.ShowInformation("Place", "Pick a target area first.", w)
			return
		}
		it := items[selectedItem]
		pc.SetMode(modeSelect)
		pc.ctrl.SelectFromCatalog(it.Name, it.Size(pc.registry.GridSize()), it.Color, areaIDs[selectedArea])
		status.SetText(fmt.Sprintf("Tap inside the area to place %s.", it.Name))
	})

	// Mode and area-type controls
	typeOptions := []string{}
	for _, t := range domain.AreaTypes() {
		typeOptions = append(typeOptions, string(t))
	}
	typeSelect := widget.NewSelect(typeOptions, func(s string) {
		t, err := domain.ParseAreaType(s)
		if err != nil {
			return
		}
		pc.session.SetAreaType(t)
	})
	typeSelect.SetSelected(string(domain.AreaLiving))

	modeRadio := widget.NewRadioGroup([]string{"Select", "Draw", "Pan"}, func(s string) {
		switch s {
		case "Draw":
			pc.SetMode(modeDraw)
			status.SetText("Tap to add vertices; tap near the first vertex to close.")
		case "Pan":
			pc.SetMode(modePan)
		default:
			pc.SetMode(modeSelect)
		}
	})
	modeRadio.SetSelected("Select")

	deleteAreaBtn := widget.NewButton("Delete Area", func() {
		if selectedArea < 0 || selectedArea >= len(areaIDs) {
			return
		}
		id := areaIDs[selectedArea]
		dialog.ShowConfirm("Delete Area", "Delete the area and all of its furniture?", func(ok bool) {
			if !ok {
				return
			}
			pc.registry.DeleteArea(id)
			selectedArea = -1
			pc.ctrl.Select("")
			pc.Refresh()
			markMutated("Area deleted.")
		}, w)
	})

	left := container.NewBorder(
		container.NewVBox(widget.NewLabel("Mode"), modeRadio, widget.NewLabel("Area Type"), typeSelect, widget.NewSeparator(), widget.NewLabel("Areas")),
		container.NewVBox(totalLabel, deleteAreaBtn),
		nil, nil,
		areasList,
	)
	right := container.NewBorder(
		container.NewVBox(widget.NewLabel("Catalog")),
		container.NewVBox(placeBtn, widget.NewSeparator(), selLabel, nameEntry, colorEntry, container.NewHBox(applyBtn, deleteBtn)),
		nil, nil,
		catalogList,
	)
	root := container.NewBorder(nil, status, left, right, pc)
	w.SetContent(root)

	// Long-press on touch devices opens the delete confirmation for the item
	// under the finger.
	pc.OnLongPress = func(wp geometry.Point) {
		f, ok := pc.registry.FurnitureAt(wp)
		if !ok {
			return
		}
		pc.ctrl.Select(f.ID)
		refreshInspector()
		dialog.ShowConfirm("Delete Furniture", fmt.Sprintf("Delete %s?", f.Name), func(yes bool) {
			if yes {
				deleteSelected()
			}
		}, w)
	}

	loadIntoEditor := func(h *storage.DesignHandle) error {
		if err := pc.registry.Import(h.Design); err != nil {
			return err
		}
		dh = h
		pc.ctrl.Select("")
		pc.SetCanvasSize(h.Design.CanvasSize)
		pc.Refresh()
		refreshAreas()
		refreshInspector()
		resetUndo()
		dirty = false
		w.SetTitle(fmt.Sprintf("Floorplanner: %s", h.Design.Name))
		addRecentDesign(prefs, h.Root)
		furniture := 0
		for _, a := range pc.registry.Areas() {
			furniture += len(a.Furniture)
		}
		telemetry.DesignOpened(len(pc.registry.Areas()), furniture)
		return nil
	}

	syncToHandle := func() {
		if dh == nil {
			return
		}
		dh.Design = pc.registry.Encode(dh.Design.Name, dh.Design.CanvasSize, time.Now().UTC())
	}
	saveDesign := func(quiet bool) {
		if dh == nil {
			if !quiet {
				dialog.ShowInformation("Save", "No design open. Use File then New or Open first.", w)
			}
			return
		}
		syncToHandle()
		if err := storage.Save(dh); err != nil {
			l.Error("save failed", slog.Any("err", err))
			if !quiet {
				dialog.ShowError(err, w)
			}
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := storage.UpdateIndex(ctx, dh.Root, dh.Design); err != nil {
			l.Error("update index failed", slog.Any("err", err))
		}
		cancel()
		dirty = false
		if !quiet {
			status.SetText("Saved.")
		}
	}

	// Menus
	newItem := fyne.NewMenuItem("New…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			abs := uri.Path()
			nameField := widget.NewEntry()
			nameField.SetPlaceHolder("Design Name")
			form := dialog.NewForm("New Design", "Create", "Cancel", []*widget.FormItem{
				widget.NewFormItem("Name", nameField),
			}, func(ok bool) {
				if !ok {
					return
				}
				name := strings.TrimSpace(nameField.Text)
				if name == "" {
					dialog.ShowInformation("New Design", "Please enter a design name.", w)
					return
				}
				df := domain.DesignFile{
					Name:       name,
					Areas:      []domain.AreaRecord{},
					CanvasSize: domain.DefaultCanvasSize,
					ExportedAt: time.Now().UTC(),
				}
				h, ierr := storage.InitDesign(abs, df)
				if ierr != nil {
					dialog.ShowError(ierr, w)
					return
				}
				if lerr := loadIntoEditor(h); lerr != nil {
					dialog.ShowError(lerr, w)
					return
				}
				status.SetText(fmt.Sprintf("Created design: %s", abs))
			}, w)
			form.Show()
		}, w)
		fd.Show()
	})
	openDir := func(dir string) {
		h, err := storage.Open(dir)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if err := loadIntoEditor(h); err != nil {
			dialog.ShowError(err, w)
			return
		}
		status.SetText(fmt.Sprintf("Opened: %s", dir))
	}
	openItem := fyne.NewMenuItem("Open…", func() {
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			openDir(uri.Path())
		}, w)
		fd.Show()
	})
	recentItems := []*fyne.MenuItem{}
	for _, rec := range loadRecentDesigns(prefs) {
		dir := rec
		recentItems = append(recentItems, fyne.NewMenuItem(dir, func() { openDir(dir) }))
	}
	recentItem := fyne.NewMenuItem("Open Recent", nil)
	if len(recentItems) > 0 {
		recentItem.ChildMenu = fyne.NewMenu("", recentItems...)
	} else {
		recentItem.Disabled = true
	}
	saveItem := fyne.NewMenuItem("Save", func() { saveDesign(false) })
	saveAsItem := fyne.NewMenuItem("Save As…", func() {
		if dh == nil {
			dialog.ShowInformation("Save As", "No design open.", w)
			return
		}
		fd := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
			if err != nil || uri == nil {
				return
			}
			syncToHandle()
			if serr := storage.SaveAs(dh, uri.Path()); serr != nil {
				dialog.ShowError(serr, w)
				return
			}
			addRecentDesign(prefs, dh.Root)
			dirty = false
			status.SetText(fmt.Sprintf("Saved as: %s", dh.Root))
		}, w)
		fd.Show()
	})
	fileMenu := fyne.NewMenu("File", newItem, openItem, recentItem, fyne.NewMenuItemSeparator(), saveItem, saveAsItem)

	doUndo := func() {
		if _, ok := undoMgr.Undo(); !ok {
			status.SetText("Nothing to undo.")
			return
		}
		if prev, ok := undoMgr.Undo(); ok {
			applyBlob(prev.Blob)
			undoMgr.Redo()
			refreshAreas()
			refreshInspector()
			dirty = true
			status.SetText("Undone.")
			return
		}
		// Only the initial snapshot existed; put it back.
		undoMgr.Redo()
		status.SetText("Nothing to undo.")
	}
	doRedo := func() {
		s, ok := undoMgr.Redo()
		if !ok {
			status.SetText("Nothing to redo.")
			return
		}
		applyBlob(s.Blob)
		refreshAreas()
		refreshInspector()
		dirty = true
		status.SetText("Redone.")
	}
	undoItem := fyne.NewMenuItem("Undo", doUndo)
	redoItem := fyne.NewMenuItem("Redo", doRedo)
	cancelItem := fyne.NewMenuItem("Cancel Interaction", func() {
		pc.CancelInteraction()
		refreshInspector()
		status.SetText("Canceled.")
	})
	editMenu := fyne.NewMenu("Edit", undoItem, redoItem, fyne.NewMenuItemSeparator(), cancelItem)

	seedItem := fyne.NewMenuItem("Seed From Room List…", func() {
		specEntry := widget.NewMultiLineEntry()
		specEntry.SetPlaceHolder("bedroom: 12 x 10 Master\nkitchen: 8.5x10\n")
		specEntry.SetMinRowsVisible(8)
		widthEntry := widget.NewEntry()
		widthEntry.SetText("40")
		form := dialog.NewForm("Seed Layout", "Generate", "Cancel", []*widget.FormItem{
			widget.NewFormItem("Rooms", specEntry),
			widget.NewFormItem("Bound Width (ft)", widthEntry),
		}, func(ok bool) {
			if !ok {
				return
			}
			spec, errs := roomspec.Parse(specEntry.Text)
			if len(errs) > 0 {
				msgs := make([]string, 0, len(errs))
				for _, e := range errs {
					msgs = append(msgs, fmt.Sprintf("line %d: %s", e.Line, e.Message))
				}
				dialog.ShowInformation("Room List", strings.Join(msgs, "\n"), w)
				return
			}
			bound, perr := strconv.ParseFloat(strings.TrimSpace(widthEntry.Text), 64)
			if perr != nil || bound <= 0 {
				dialog.ShowInformation("Room List", "Bound width must be a positive number of feet.", w)
				return
			}
			reqs := make([]layout.Request, 0, len(spec.Rooms()))
			for _, room := range spec.Rooms() {
				reqs = append(reqs, layout.Request{
					Type: room.Type, WidthFt: room.WidthFt, HeightFt: room.HeightFt, Label: room.Label,
				})
			}
			placed, canvasFt, lerr := layout.Pack(reqs, bound)
			if lerr != nil {
				dialog.ShowError(lerr, w)
				return
			}
			pc.registry.Clear()
			for _, pl := range placed {
				if _, cerr := pc.registry.CreateArea(pl.Corners(pc.registry.GridSize()), pl.Type); cerr != nil {
					dialog.ShowError(cerr, w)
					return
				}
			}
			if dh != nil {
				dh.Design.CanvasSize = canvasFt
			}
			pc.SetCanvasSize(canvasFt)
			pc.Refresh()
			refreshAreas()
			resetUndo()
			dirty = true
			status.SetText(fmt.Sprintf("Seeded %d rooms on a %gx%g ft canvas.", len(placed), canvasFt.WidthFt, canvasFt.HeightFt))
			telemetry.LayoutSeeded(len(placed))
		}, w)
		form.Resize(fyne.NewSize(480, 360))
		form.Show()
	})
	layoutMenu := fyne.NewMenu("Layout", seedItem)

	exportWith := func(title, ext string, run func(outPath string) error) {
		if dh == nil {
			dialog.ShowInformation(title, "Save the design before exporting.", w)
			return
		}
		saveDesign(true)
		save := dialog.NewFileSave(func(uc fyne.URIWriteCloser, err error) {
			if err != nil {
				dialog.ShowError(err, w)
				return
			}
			if uc == nil {
				return
			}
			outPath := uc.URI().Path()
			_ = uc.Close()
			if rerr := run(outPath); rerr != nil {
				dialog.ShowError(rerr, w)
				return
			}
			telemetry.DesignExported(strings.TrimPrefix(ext, "."))
			dialog.ShowInformation(title, "Exported to "+outPath, w)
		}, w)
		save.SetFileName("plan" + ext)
		save.SetFilter(fstorage.NewExtensionFileFilter([]string{ext}))
		save.Show()
	}
	exportPNGItem := fyne.NewMenuItem("Export PNG…", func() {
		exportWith("Export PNG", ".png", func(out string) error {
			return export.ExportPNG(dh, out, export.PNGOptions{IncludeGrid: true, IncludeLabels: true})
		})
	})
	exportSVGItem := fyne.NewMenuItem("Export SVG…", func() {
		exportWith("Export SVG", ".svg", func(out string) error {
			return export.ExportSVG(dh, out, export.SVGOptions{IncludeGrid: true, IncludeLabels: true})
		})
	})
	exportPDFItem := fyne.NewMenuItem("Export PDF…", func() {
		exportWith("Export PDF", ".pdf", func(out string) error {
			return export.ExportPDF(dh, out, export.PDFOptions{IncludeGrid: true, IncludeLabels: true})
		})
	})
	exportBundleItem := fyne.NewMenuItem("Export Bundle…", func() {
		exportWith("Export Bundle", ".zip", func(out string) error {
			return export.ExportBundle(dh, out, export.BundleOptions{
				PNG: export.PNGOptions{IncludeGrid: true, IncludeLabels: true},
			})
		})
	})
	exportMenu := fyne.NewMenu("Export", exportPNGItem, exportSVGItem, exportPDFItem, exportBundleItem)

	publishItem := fyne.NewMenuItem("Publish to Server…", func() {
		if dh == nil {
			dialog.ShowInformation("Publish", "Save the design before publishing.", w)
			return
		}
		saveDesign(true)
		blob, merr := json.Marshal(dh.Design)
		if merr != nil {
			dialog.ShowError(merr, w)
			return
		}
		_, token, terr := config.Load()
		if terr != nil {
			l.Error("token load failed", slog.Any("err", terr))
		}
		client := backend.NewClient(cfg.Backend.BaseURL, token)
		timeout := time.Duration(cfg.Backend.TimeoutMs) * time.Millisecond
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, perr := client.Publish(ctx, blob)
		if perr != nil {
			dialog.ShowError(perr, w)
			return
		}
		telemetry.DesignPublished()
		dialog.ShowInformation("Publish", fmt.Sprintf("Published design %d at version %d.", res.ID, res.Version), w)
	})
	serverMenu := fyne.NewMenu("Server", publishItem)

	aboutItem := fyne.NewMenuItem("About Floorplanner", func() {
		exe, _ := os.Executable()
		cwd, _ := os.Getwd()
		info := fmt.Sprintf("Floorplanner\nVersion: %s\nOS: %s\nArch: %s\nGo: %s\nExecutable: %s\nWorking Dir: %s",
			version.String(), runtime.GOOS, runtime.GOARCH, runtime.Version(), exe, cwd)
		dialog.ShowInformation("About", info, w)
	})
	aboutMenu := fyne.NewMenu("About", aboutItem)

	w.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, layoutMenu, exportMenu, serverMenu, aboutMenu))

	// Keyboard shortcuts
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyZ, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { doUndo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyY, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { doRedo() })
	w.Canvas().AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyS, Modifier: fyne.KeyModifierControl}, func(fyne.Shortcut) { saveDesign(false) })
	w.Canvas().SetOnTypedKey(func(k *fyne.KeyEvent) {
		switch k.Name {
		case fyne.KeyEscape:
			pc.CancelInteraction()
			refreshInspector()
			status.SetText("Canceled.")
		case fyne.KeyDelete, fyne.KeyBackspace:
			deleteSelected()
		}
	})

	// Background autosave of the open design.
	autosave := time.Duration(cfg.Editor.AutosaveSec) * time.Second
	if autosave > 0 {
		ticker := time.NewTicker(autosave)
		go func() {
			for range ticker.C {
				fyne.Do(func() {
					if dirty && dh != nil {
						saveDesign(true)
						l.Info("autosaved design", slog.String("root", dh.Root))
					}
				})
			}
		}()
		defer ticker.Stop()
	}

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		if dirty && dh != nil {
			saveDesign(true)
		}
		w.Close()
	})

	if designDir != "" {
		abs, _ := filepath.Abs(designDir)
		openDir(abs)
	} else {
		refreshAreas()
		status.SetText("No design open. Use File then New or Open.")
	}

	w.ShowAndRun()
	return nil
}

// Recent design persistence for the File menu.
const recentPrefsKey = "recent.designs"
const recentMax = 10

func loadRecentDesigns(p fyne.Preferences) []string {
	raw := p.StringWithFallback(recentPrefsKey, "")
	var items []string
	if strings.TrimSpace(raw) != "" {
		var tmp []string
		if err := json.Unmarshal([]byte(raw), &tmp); err == nil {
			items = tmp
		}
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := os.Stat(s); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func saveRecentDesigns(p fyne.Preferences, items []string) {
	if len(items) > recentMax {
		items = items[:recentMax]
	}
	b, _ := json.Marshal(items)
	p.SetString(recentPrefsKey, string(b))
}

func addRecentDesign(p fyne.Preferences, path string) {
	if strings.TrimSpace(path) == "" {
		return
	}
	abs, _ := filepath.Abs(path)
	rec := loadRecentDesigns(p)
	out := make([]string, 0, 1+len(rec))
	out = append(out, abs)
	for _, s := range rec {
		if strings.EqualFold(s, abs) {
			continue
		}
		out = append(out, s)
	}
	saveRecentDesigns(p, out)
}
