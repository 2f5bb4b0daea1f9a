package driver

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"wscheck/internal/config"
	"wscheck/internal/diag"
	"wscheck/internal/lexer"
	"wscheck/internal/observ"
	"wscheck/internal/source"
	"wscheck/internal/trace"
	"wscheck/internal/trailing"
)

// Skip reasons recorded on FileResult.Skipped.
const (
	SkipBinary    = "binary file"
	SkipLexErrors = "lexical errors"
)

// Options configures a check run.
type Options struct {
	// MaxDiagnostics limits diagnostics per file; 0 means unlimited.
	MaxDiagnostics int
	// Jobs bounds parallel file checks; 0 uses GOMAXPROCS.
	Jobs int
	// Config supplies include/exclude patterns and syntax profiles. Nil
	// means config.Discover on the target.
	Config *config.Config
	// Registry overrides Config.Registry() when set.
	Registry *lexer.Registry
	Cache    *DiskCache
	Timings  bool
	Progress ProgressSink
}

// FileResult is the outcome of checking one file.
type FileResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	// Doc is nil for files answered from cache, skipped or failed to load.
	Doc     *trailing.Document
	Skipped string
	Cached  bool
	Timing  *observ.Report
}

// CheckResult collects every file of a run over one FileSet.
type CheckResult struct {
	FileSet  *source.FileSet
	Config   *config.Config
	Registry *lexer.Registry
	Files    []FileResult
	Timing   *observ.Report
}

// Bag merges the per-file bags into one sorted bag.
func (r *CheckResult) Bag() *diag.Bag {
	out := diag.NewBag(0)
	for i := range r.Files {
		out.Merge(r.Files[i].Bag)
	}
	out.Sort()
	return out
}

// Diagnostics returns every diagnostic of the run in output order.
func (r *CheckResult) Diagnostics() []diag.Diagnostic {
	return r.Bag().Items()
}

// Check dispatches to CheckFile or CheckDir depending on what target is.
func Check(ctx context.Context, target string, opts Options) (*CheckResult, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return CheckDir(ctx, target, opts)
	}
	return CheckFile(ctx, target, opts)
}

func (opts *Options) resolve(target string) error {
	if opts.Config == nil {
		cfg, err := config.Discover(target)
		if err != nil {
			return err
		}
		opts.Config = cfg
	}
	if opts.Registry == nil {
		opts.Registry = opts.Config.Registry()
	}
	if opts.MaxDiagnostics == 0 {
		opts.MaxDiagnostics = opts.Config.MaxDiagnostics
	}
	if opts.Jobs <= 0 {
		opts.Jobs = opts.Config.Jobs
	}
	if opts.Jobs <= 0 {
		opts.Jobs = runtime.GOMAXPROCS(0)
	}
	return nil
}

// CheckFile checks a single file. Load failures are returned as errors.
func CheckFile(ctx context.Context, path string, opts Options) (*CheckResult, error) {
	if err := opts.resolve(path); err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check_file", 0).WithExtra("path", path)
	defer span.End("")

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	endLoad := phase(timer, "load_file")
	fs := source.NewFileSetWithBase(opts.Config.Root)
	id, err := fs.Load(path)
	endLoad("")
	if err != nil {
		return nil, err
	}

	res := checkLoaded(ctx, fs, id, opts, timer, span.ID())
	if timer != nil {
		report := timer.Report()
		res.Timing = &report
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    "file",
			Path:    res.Path,
			TotalMS: report.TotalMS,
			Phases:  report.Phases,
		}, id)
	}
	return &CheckResult{FileSet: fs, Config: opts.Config, Registry: opts.Registry, Files: []FileResult{res}, Timing: res.Timing}, nil
}

// CheckDir checks every included file below dir in parallel. Files that fail
// to load get an IO4001 diagnostic instead of aborting the run.
func CheckDir(ctx context.Context, dir string, opts Options) (*CheckResult, error) {
	if err := opts.resolve(dir); err != nil {
		return nil, err
	}
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "check_dir", 0).WithExtra("dir", dir)

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}

	endList := phase(timer, "list_files")
	files, err := ListFiles(dir, opts.Config)
	endList(fmt.Sprintf("files=%d", len(files)))
	if err != nil {
		span.End("list failed")
		return nil, err
	}

	for _, path := range files {
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusQueued})
	}

	// Files are loaded sequentially so FileIDs follow path order.
	endLoad := phase(timer, "load_files")
	fs := source.NewFileSetWithBase(opts.Config.Root)
	ids := make([]source.FileID, len(files))
	loadErrs := make([]error, len(files))
	for i, path := range files {
		ids[i], loadErrs[i] = fs.Load(path)
		if loadErrs[i] != nil {
			ids[i] = fs.AddVirtual(path, nil)
		}
	}
	endLoad("")

	results := make([]FileResult, len(files))
	endCheck := phase(timer, "check_files")
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(opts.Jobs, len(files))))
	for i := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			if loadErrs[i] != nil {
				results[i] = loadFailure(fs, ids[i], files[i], loadErrs[i], opts)
				return nil
			}
			var fileTimer *observ.Timer
			if opts.Timings {
				fileTimer = observ.NewTimer()
			}
			results[i] = checkLoaded(gctx, fs, ids[i], opts, fileTimer, span.ID())
			if fileTimer != nil {
				report := fileTimer.Report()
				results[i].Timing = &report
			}
			return nil
		})
	}
	err = g.Wait()
	endCheck(fmt.Sprintf("jobs=%d", opts.Jobs))
	span.End(fmt.Sprintf("files=%d", len(files)))
	if err != nil {
		return nil, err
	}

	out := &CheckResult{FileSet: fs, Config: opts.Config, Registry: opts.Registry, Files: results}
	if timer != nil {
		report := timer.Report()
		out.Timing = &report
	}
	emit(opts.Progress, Event{Stage: StageDetect, Status: StatusDone})
	return out, nil
}

func loadFailure(fs *source.FileSet, id source.FileID, path string, err error, opts Options) FileResult {
	bag := diag.NewBag(opts.MaxDiagnostics)
	bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: id}, fmt.Sprintf("failed to load file: %v", err)))
	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
	return FileResult{Path: fs.Get(id).Path, FileID: id, Bag: bag}
}

// checkLoaded lexes and inspects one loaded file version.
func checkLoaded(ctx context.Context, fs *source.FileSet, id source.FileID, opts Options, timer *observ.Timer, parent uint64) FileResult {
	file := fs.Get(id)
	bag := diag.NewBag(opts.MaxDiagnostics)
	res := FileResult{Path: file.Path, FileID: id, Bag: bag}

	tracer := trace.FromContext(ctx)
	fileSpan := trace.Begin(tracer, trace.ScopeFile, "file", parent).WithExtra("path", file.Path)
	status := StatusDone
	defer func() {
		fileSpan.End(fmt.Sprintf("diags=%d %s", bag.Len(), status))
		emit(opts.Progress, Event{File: file.Path, Stage: StageDetect, Status: status})
	}()

	if isBinary(file.Content) {
		res.Skipped = SkipBinary
		status = StatusSkipped
		return res
	}

	syn := opts.Registry.ForPath(file.Path)
	var key Digest
	if opts.Cache != nil {
		key = cacheKey(file, syn, opts.MaxDiagnostics)
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && payload.Hash == Digest(file.Hash) {
			for _, d := range diagnosticsFromPayload(id, &payload) {
				bag.Add(d)
			}
			trace.Point(tracer, trace.ScopeFile, "cache", "hit", fileSpan.ID())
			res.Skipped = payload.Skipped
			res.Cached = true
			status = StatusCached
			return res
		}
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageLex, Status: StatusWorking})
	endLex := phase(timer, "lex")
	lexSpan := trace.Begin(tracer, trace.ScopePass, "lex", fileSpan.ID())
	tokens := lexer.Tokenize(file, lexer.Options{
		Syntax:   syn,
		Reporter: lineReporter{bag: bag, file: file},
	})
	lexSpan.End(fmt.Sprintf("tokens=%d", len(tokens)))
	endLex(fmt.Sprintf("tokens=%d syntax=%s", len(tokens), syn.Name))

	if bag.HasErrors() {
		res.Skipped = SkipLexErrors
		status = StatusSkipped
		storeCache(opts.Cache, key, file, res.Skipped, bag)
		return res
	}

	emit(opts.Progress, Event{File: file.Path, Stage: StageDetect, Status: StatusWorking})
	endDetect := phase(timer, "detect")
	detectSpan := trace.Begin(tracer, trace.ScopePass, "detect", fileSpan.ID())
	doc, err := trailing.NewDocument(fs, id, tokens)
	if err != nil {
		detectSpan.End(err.Error())
		endDetect("")
		bag.Add(diag.NewError(diag.UnknownCode, source.Span{File: id}, err.Error()))
		status = StatusError
		return res
	}
	found := trailing.Detect(doc)
	for _, d := range found {
		bag.Add(d)
	}
	bag.Sort()
	detectSpan.End(fmt.Sprintf("found=%d", len(found)))
	endDetect(fmt.Sprintf("found=%d", len(found)))

	res.Doc = doc
	storeCache(opts.Cache, key, file, "", bag)
	return res
}

func storeCache(cache *DiskCache, key Digest, file *source.File, skipped string, bag *diag.Bag) {
	if cache == nil {
		return
	}
	// a failed write only costs a future cache miss
	_ = cache.Put(key, payloadFromDiagnostics(file, skipped, bag.Items()))
}

// lineReporter stores lexer diagnostics with their zero-based line filled in.
type lineReporter struct {
	bag  *diag.Bag
	file *source.File
}

func (r lineReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.bag.Add(diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Line:     r.file.LinePos(primary.Start).Line,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

// isBinary follows the git heuristic: a NUL byte in the first 8000 bytes.
func isBinary(content []byte) bool {
	n := min(len(content), 8000)
	for _, b := range content[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}

// phase starts a timed phase; the returned func ends it with a note.
func phase(timer *observ.Timer, name string) func(note string) {
	if timer == nil {
		return func(string) {}
	}
	return timer.Track(name)
}
