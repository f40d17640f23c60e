package generate

import (
	"testing"

	"github.com/pipepilot/pipepilot/internal/state"
)

func TestDecodeBatch_WellFormed(t *testing.T) {
	response := `Some preamble the model emitted.

=== JENKINSFILE ===
pipeline {
    agent any
}

=== PIPELINE_JOB_CONFIG ===
<?xml version="1.0"?>
<flow-definition/>

=== REQUIRED_PLUGINS ===
<plugins>
  <plugin>git@4.8.3</plugin>
</plugins>

=== END ===
Trailing chatter.`

	artifacts := DecodeBatch(response)

	if len(artifacts) != 3 {
		t.Fatalf("decoded %d artifacts: %v", len(artifacts), artifacts)
	}
	if artifacts[state.ArtifactPipeline] != "pipeline {\n    agent any\n}" {
		t.Fatalf("pipeline = %q", artifacts[state.ArtifactPipeline])
	}
	if artifacts[state.ArtifactJobConfig] != "<?xml version=\"1.0\"?>\n<flow-definition/>" {
		t.Fatalf("job config = %q", artifacts[state.ArtifactJobConfig])
	}
	if artifacts[state.ArtifactPlugins] != "<plugins>\n  <plugin>git@4.8.3</plugin>\n</plugins>" {
		t.Fatalf("plugins = %q", artifacts[state.ArtifactPlugins])
	}
}

func TestDecodeBatch_MissingEndMarkerFlushesLastSection(t *testing.T) {
	response := `=== JENKINSFILE ===
pipeline { agent any }

=== REQUIRED_PLUGINS ===
<plugins><plugin>workflow-aggregator</plugin></plugins>`

	artifacts := DecodeBatch(response)

	if len(artifacts) != 2 {
		t.Fatalf("decoded %d artifacts: %v", len(artifacts), artifacts)
	}
	if artifacts[state.ArtifactPlugins] != "<plugins><plugin>workflow-aggregator</plugin></plugins>" {
		t.Fatalf("plugins = %q", artifacts[state.ArtifactPlugins])
	}
}

func TestDecodeBatch_MarkersOutOfOrder(t *testing.T) {
	response := `=== REQUIRED_PLUGINS ===
<plugins/>
=== JENKINSFILE ===
pipeline { agent any }
=== END ===`

	artifacts := DecodeBatch(response)

	if artifacts[state.ArtifactPlugins] != "<plugins/>" {
		t.Fatalf("plugins = %q", artifacts[state.ArtifactPlugins])
	}
	if artifacts[state.ArtifactPipeline] != "pipeline { agent any }" {
		t.Fatalf("pipeline = %q", artifacts[state.ArtifactPipeline])
	}
	if _, ok := artifacts[state.ArtifactJobConfig]; ok {
		t.Fatal("job config should be absent")
	}
}

func TestDecodeBatch_EmptySectionOmitted(t *testing.T) {
	response := `=== JENKINSFILE ===

=== PIPELINE_JOB_CONFIG ===
<flow-definition/>
=== END ===`

	artifacts := DecodeBatch(response)

	if _, ok := artifacts[state.ArtifactPipeline]; ok {
		t.Fatal("empty pipeline section should be omitted")
	}
	if artifacts[state.ArtifactJobConfig] != "<flow-definition/>" {
		t.Fatalf("job config = %q", artifacts[state.ArtifactJobConfig])
	}
}

func TestDecodeBatch_NoMarkers(t *testing.T) {
	if artifacts := DecodeBatch("the model refused to cooperate"); len(artifacts) != 0 {
		t.Fatalf("artifacts = %v", artifacts)
	}
}

func TestDecodeBatch_ContentBeforeFirstMarkerIgnored(t *testing.T) {
	response := `pipeline { this is not inside a section }
=== JENKINSFILE ===
pipeline { agent any }
=== END ===`

	artifacts := DecodeBatch(response)
	if artifacts[state.ArtifactPipeline] != "pipeline { agent any }" {
		t.Fatalf("pipeline = %q", artifacts[state.ArtifactPipeline])
	}
}
