package main

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/osuushi/islandfill"
	"gopkg.in/alecthomas/kingpin.v2"
	"gopkg.in/yaml.v3"
)

// Fill a hole from the command line. The problem is a YAML file (points,
// boundary, islands) or a GeoJSON polygon whose inner rings are the islands. A
// path of "-" reads YAML from stdin. The fill is written to stdout as YAML.
var (
	app = kingpin.New("islandfill", "Fill a hole that contains islands with an optimal triangulation.")

	problemPath = app.Arg("problem", "Problem file (.yaml, .yml, .json or .geojson), or - for YAML on stdin.").Required().String()
	configPath  = app.Flag("config", "YAML options file.").Short('c').ExistingFile()
	measure     = app.Flag("measure", "Triangle measure.").Short('m').Enum(islandfill.MeasureAngle, islandfill.MeasureDihedral)
	maxDepth    = app.Flag("max-depth", "Abort past this recursion depth (0 for no limit).").Int()
	timeout     = app.Flag("timeout", "Abort after this long.").Duration()
	parallel    = app.Flag("parallel", "Evaluate top level candidates concurrently.").Bool()
	noMemo      = app.Flag("no-memo", "Don't reuse results for repeated sub-domains.").Bool()
	trace       = app.Flag("trace", "Trace the search to stderr.").Bool()
	drawPath    = app.Flag("draw", "Draw the fill into this PNG.").String()
	drawScale   = app.Flag("scale", "Pixels per unit for --draw.").Default("40").Float64()
	catImage    = app.Flag("imgcat", "Print the drawing inline (iTerm only).").Bool()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))
	log.SetFlags(0)
	log.SetPrefix("islandfill: ")

	problem, err := readProblem(*problemPath)
	if err != nil {
		log.Fatalf("Failed to read problem: %v", err)
	}

	options, err := buildOptions()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	fill, err := islandfill.Triangulate(context.Background(), problem, options)
	if err != nil {
		log.Fatalf("Fill failed: %v", err)
	}
	log.Printf("%d triangles, weight %s, %d calls, %d memo hits, %d duplicates",
		len(fill.Triangles), fill.Weight, fill.Stats.Calls, fill.Stats.MemoHits, fill.Stats.Duplicates)

	out, err := yaml.Marshal(fill.File())
	if err != nil {
		log.Fatalf("Failed to encode fill: %v", err)
	}
	os.Stdout.Write(out)

	if *drawPath != "" || *catImage {
		path := *drawPath
		if path == "" {
			path = filepath.Join(os.TempDir(), "islandfill.png")
		}
		if err := islandfill.DrawPNG(path, problem, fill, *drawScale); err != nil {
			log.Fatalf("Failed to draw: %v", err)
		}
		if *catImage {
			if err := islandfill.CatPNG(path, os.Stderr); err != nil {
				log.Printf("Failed to print drawing: %v", err)
			}
		}
	}
}

func readProblem(path string) (*islandfill.Problem, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, err
		}
		return islandfill.ParseProblem(data)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".geojson":
		return islandfill.LoadGeoJSON(path)
	}
	return islandfill.LoadProblem(path)
}

// Options from the config file, if any, with flags taking precedence.
func buildOptions() (islandfill.Options, error) {
	config := &islandfill.Config{}
	if *configPath != "" {
		var err error
		config, err = islandfill.LoadConfig(*configPath)
		if err != nil {
			return islandfill.Options{}, err
		}
	}

	options := config.Options(os.Stderr)
	if *measure != "" {
		options.Measure = *measure
	}
	if *maxDepth > 0 {
		options.MaxDepth = *maxDepth
	}
	if *timeout > 0 {
		options.Timeout = *timeout
	}
	if *parallel {
		options.Parallel = true
	}
	if *noMemo {
		options.Memoize = false
	}
	if *trace {
		options.Trace = os.Stderr
	}
	return options, nil
}
