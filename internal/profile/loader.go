package profile

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/flightworks/derive/internal/ctxlog"
	"github.com/flightworks/derive/internal/fsutil"
)

// fileRoot is the decode target for the top-level blocks of any profile file.
type fileRoot struct {
	Analysis  *analysisBlock   `hcl:"analysis,block"`
	Detectors []*detectorBlock `hcl:"detector,block"`
	Hooks     *hooksBlock      `hcl:"hooks,block"`
	Remain    hcl.Body         `hcl:",remain"`
}

type analysisBlock struct {
	Aircraft  string   `hcl:"aircraft,optional"`
	Requested []string `hcl:"requested,optional"`
}

// detectorBlock carries free-form threshold attributes; they are decoded
// through cty so profiles can use expressions, not just literals.
type detectorBlock struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

type hooksBlock struct {
	PostProcessSignal bool `hcl:"post_process_signal,optional"`
}

// Load discovers every .hcl file under the given paths, decodes them, and
// merges them into one profile. Later files override scalar settings from
// earlier ones; requested outputs accumulate.
func Load(ctx context.Context, paths ...string) (*Profile, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Profile loader started.", "path_count", len(paths))

	p := Default()
	parser := hclparse.NewParser()

	for _, path := range paths {
		files, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("discovering profile files under %q: %w", path, err)
		}
		logger.Debug("Discovered profile files.", "path", path, "count", len(files))

		for _, file := range files {
			hclFile, diags := parser.ParseHCLFile(file)
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to parse profile file %s: %w", file, diags)
			}

			var root fileRoot
			if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode profile file %s: %w", file, diags)
			}
			if err := p.merge(&root); err != nil {
				return nil, fmt.Errorf("profile file %s: %w", file, err)
			}
		}
	}

	logger.Debug("Profile loaded.",
		"aircraft", p.Aircraft, "requested_outputs", len(p.Requested))
	return p, nil
}

func (p *Profile) merge(root *fileRoot) error {
	if root.Analysis != nil {
		if root.Analysis.Aircraft != "" {
			p.Aircraft = root.Analysis.Aircraft
		}
		p.Requested = append(p.Requested, root.Analysis.Requested...)
	}
	if root.Hooks != nil {
		p.Hooks.PostProcessSignal = root.Hooks.PostProcessSignal
	}
	for _, det := range root.Detectors {
		if err := p.mergeDetector(det); err != nil {
			return err
		}
	}
	return nil
}

// mergeDetector decodes a detector block's attributes through cty, so each
// threshold keeps its declared name in error messages.
func (p *Profile) mergeDetector(det *detectorBlock) error {
	if det.Name != "touchdown" {
		return fmt.Errorf("unknown detector block %q", det.Name)
	}

	attrs, diags := det.Body.JustAttributes()
	if diags.HasErrors() {
		return fmt.Errorf("reading detector %q attributes: %w", det.Name, diags)
	}

	targets := map[string]*float64{
		"vert_speed_threshold": &p.Touchdown.VertSpeedThreshold,
		"accel_threshold":      &p.Touchdown.AccelThreshold,
		"radio_alt_margin":     &p.Touchdown.RadioAltMargin,
		"radio_alt_crossing":   &p.Touchdown.RadioAltCrossing,
	}

	for name, attr := range attrs {
		target, ok := targets[name]
		if !ok {
			return fmt.Errorf("detector %q has unknown setting %q", det.Name, name)
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return fmt.Errorf("evaluating detector setting %q: %w", name, diags)
		}
		num, err := convert.Convert(val, cty.Number)
		if err != nil {
			return fmt.Errorf("detector setting %q must be a number: %w", name, err)
		}
		f, _ := num.AsBigFloat().Float64()
		*target = f
	}
	return nil
}
