package generate

import "testing"

func TestCleanPipeline(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			"fenced with preamble",
			"Here is your pipeline:\n```groovy\npipeline {\n    agent any\n}\n```",
			"pipeline {\n    agent any\n}",
		},
		{
			"already clean",
			"pipeline { agent any }",
			"pipeline { agent any }",
		},
		{
			"no pipeline token",
			"some stray text",
			"some stray text",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanPipeline(tt.in); got != tt.want {
				t.Fatalf("CleanPipeline = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCleanXML(t *testing.T) {
	tests := []struct {
		name, in, want string
	}{
		{
			"rewinds to declaration",
			"Sure, here it is:\n<?xml version=\"1.0\"?>\n<flow-definition/>",
			"<?xml version=\"1.0\"?>\n<flow-definition/>",
		},
		{
			"no declaration rewinds to first element",
			"The config:\n<flow-definition/>",
			"<flow-definition/>",
		},
		{
			"fenced",
			"```xml\n<plugins/>\n```",
			"<plugins/>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanXML(tt.in); got != tt.want {
				t.Fatalf("CleanXML = %q, want %q", got, tt.want)
			}
		})
	}
}
