package analyzer

import (
	"reflect"
	"testing"
)

func TestClassify_GoModuleOnly(t *testing.T) {
	keyFiles := map[string]string{"go.mod": "module example.com/app\n\ngo 1.22\n"}
	r := classify(keyFiles, Structure{})

	if r.primaryLanguage != "Go" {
		t.Fatalf("primary language = %q, want Go", r.primaryLanguage)
	}
	if !reflect.DeepEqual(r.techStack, []string{"Go"}) {
		t.Fatalf("tech stack = %v", r.techStack)
	}
	if !reflect.DeepEqual(r.buildTools, []string{"Go modules"}) {
		t.Fatalf("build tools = %v", r.buildTools)
	}
	if len(r.testFrameworks) != 0 {
		t.Fatalf("test frameworks = %v", r.testFrameworks)
	}
}

func TestClassify_TypeScriptOverridesJavaScript(t *testing.T) {
	keyFiles := map[string]string{
		"package.json": `{"dependencies": {"react": "^18", "typescript": "^5"}, "devDependencies": {"jest": "^29"}}`,
	}
	r := classify(keyFiles, Structure{})

	if r.primaryLanguage != "TypeScript" {
		t.Fatalf("primary language = %q, want TypeScript", r.primaryLanguage)
	}
	if !r.has("Node.js") || !r.has("React") || !r.has("TypeScript") {
		t.Fatalf("tech stack = %v", r.techStack)
	}
	if len(r.testFrameworks) != 1 || r.testFrameworks[0] != "Jest" {
		t.Fatalf("test frameworks = %v", r.testFrameworks)
	}
}

func TestClassify_RuleOrderLastStackWinsPrimary(t *testing.T) {
	// Both a Node manifest and a go.mod: the Go rule runs later and takes
	// the primary language, while both stacks are reported.
	keyFiles := map[string]string{
		"package.json": `{"name": "tools"}`,
		"go.mod":       "module example.com/app\n",
	}
	r := classify(keyFiles, Structure{})

	if r.primaryLanguage != "Go" {
		t.Fatalf("primary language = %q, want Go", r.primaryLanguage)
	}
	if !r.has("Node.js") || !r.has("Go") {
		t.Fatalf("tech stack = %v", r.techStack)
	}
}

func TestClassify_GradleWithoutPomStillJava(t *testing.T) {
	keyFiles := map[string]string{"build.gradle": "plugins { id 'java' }"}
	r := classify(keyFiles, Structure{})

	if r.primaryLanguage != "Java" {
		t.Fatalf("primary language = %q", r.primaryLanguage)
	}
	if !reflect.DeepEqual(r.buildTools, []string{"Gradle"}) {
		t.Fatalf("build tools = %v", r.buildTools)
	}
}

func TestClassify_MavenAndGradleSingleJavaTag(t *testing.T) {
	keyFiles := map[string]string{
		"pom.xml":      "<project><dependencies><dependency>junit</dependency></dependencies></project>",
		"build.gradle": "plugins { id 'java' }",
	}
	r := classify(keyFiles, Structure{})

	count := 0
	for _, tag := range r.techStack {
		if tag == "Java" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("Java appears %d times in %v", count, r.techStack)
	}
	if !reflect.DeepEqual(r.buildTools, []string{"Maven", "Gradle"}) {
		t.Fatalf("build tools = %v", r.buildTools)
	}
}

func TestClassify_PythonViaRequirements(t *testing.T) {
	keyFiles := map[string]string{"requirements.txt": "flask==3.0\n"}
	r := classify(keyFiles, Structure{})

	if r.primaryLanguage != "Python" {
		t.Fatalf("primary language = %q", r.primaryLanguage)
	}
	// Framework refinement only reads pyproject.toml, not requirements.txt.
	if r.has("Flask") {
		t.Fatalf("tech stack = %v", r.techStack)
	}
}

func TestClassify_ExtensionFallback(t *testing.T) {
	structure := Structure{FileExtensions: map[string]int{".rs": 12, ".md": 3}}
	r := classify(map[string]string{}, structure)

	if r.primaryLanguage != "Rust" {
		t.Fatalf("primary language = %q", r.primaryLanguage)
	}
	if !reflect.DeepEqual(r.techStack, []string{"Rust"}) {
		t.Fatalf("tech stack = %v", r.techStack)
	}
}

func TestClassify_ExtensionFallbackTypeScript(t *testing.T) {
	structure := Structure{FileExtensions: map[string]int{".ts": 30, ".js": 4}}
	r := classify(map[string]string{}, structure)

	if r.primaryLanguage != "TypeScript" {
		t.Fatalf("primary language = %q", r.primaryLanguage)
	}
}

func TestClassify_NothingDetected(t *testing.T) {
	r := classify(map[string]string{}, Structure{FileExtensions: map[string]int{".txt": 2}})

	if r.primaryLanguage != "Unknown" {
		t.Fatalf("primary language = %q", r.primaryLanguage)
	}
	if len(r.techStack) != 0 {
		t.Fatalf("tech stack = %v", r.techStack)
	}
}

func TestClassify_DockerAddsStackNotPrimary(t *testing.T) {
	keyFiles := map[string]string{
		"go.mod":     "module example.com/app\n",
		"Dockerfile": "FROM golang:1.22\n",
	}
	r := classify(keyFiles, Structure{})

	if r.primaryLanguage != "Go" {
		t.Fatalf("primary language = %q", r.primaryLanguage)
	}
	if !r.has("Docker") {
		t.Fatalf("tech stack = %v", r.techStack)
	}
}
