package generate

import (
	"strings"

	"github.com/pipepilot/pipepilot/internal/state"
)

// section identifies which artifact the decoder is currently accumulating.
type section int

const (
	sectionNone section = iota
	sectionPipeline
	sectionJobConfig
	sectionPlugins
)

const endMarker = "=== END ==="

// sectionMarkers maps a delimiter line to the artifact section it opens.
var sectionMarkers = map[string]section{
	"=== JENKINSFILE ===":         sectionPipeline,
	"=== PIPELINE_JOB_CONFIG ===": sectionJobConfig,
	"=== REQUIRED_PLUGINS ===":    sectionPlugins,
}

var sectionArtifact = map[section]string{
	sectionPipeline:  state.ArtifactPipeline,
	sectionJobConfig: state.ArtifactJobConfig,
	sectionPlugins:   state.ArtifactPlugins,
}

// DecodeBatch splits a delimited model response into artifacts. The decoder
// is lenient: markers may appear in any order, a missing END marker closes the
// open section at end of input, and absent or empty sections are simply left
// out of the result. Callers decide whether a partial set is acceptable.
func DecodeBatch(response string) state.ArtifactSet {
	artifacts := state.ArtifactSet{}

	current := sectionNone
	var buf []string

	flush := func() {
		if current == sectionNone {
			buf = nil
			return
		}
		content := strings.TrimSpace(strings.Join(buf, "\n"))
		if content != "" {
			artifacts[sectionArtifact[current]] = content
		}
		current = sectionNone
		buf = nil
	}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if next, ok := sectionMarkers[trimmed]; ok {
			flush()
			current = next
			continue
		}
		if trimmed == endMarker {
			flush()
			continue
		}
		if current != sectionNone {
			buf = append(buf, line)
		}
	}
	flush()

	return artifacts
}
