package analyzer

import "strings"

// techResult is the outcome of the classification rule table.
type techResult struct {
	techStack       []string
	buildTools      []string
	testFrameworks  []string
	primaryLanguage string
}

// classify derives the technology stack from config files, falling back to a
// file-extension heuristic when no config file matched. This is a flat rule
// table evaluated in declaration order: the first matching rule sets the
// primary language, and later content refinements (e.g. a typescript keyword
// inside package.json) may override it.
func classify(keyFiles map[string]string, structure Structure) techResult {
	r := techResult{primaryLanguage: "Unknown"}

	if content, ok := keyFiles["package.json"]; ok {
		r.add("Node.js")
		r.buildTools = append(r.buildTools, "npm")
		r.primaryLanguage = "JavaScript"

		lower := strings.ToLower(content)
		if strings.Contains(lower, "react") {
			r.add("React")
		}
		if strings.Contains(lower, "vue") {
			r.add("Vue.js")
		}
		if strings.Contains(lower, "angular") {
			r.add("Angular")
		}
		if strings.Contains(lower, "next") {
			r.add("Next.js")
		}
		if strings.Contains(lower, "express") {
			r.add("Express")
		}
		if strings.Contains(lower, "jest") {
			r.testFrameworks = append(r.testFrameworks, "Jest")
		}
		if strings.Contains(lower, "cypress") {
			r.testFrameworks = append(r.testFrameworks, "Cypress")
		}
		if strings.Contains(lower, "typescript") {
			r.add("TypeScript")
			r.primaryLanguage = "TypeScript"
		}
	}

	if _, ok := keyFiles["yarn.lock"]; ok {
		r.buildTools = append(r.buildTools, "Yarn")
	}

	if content, ok := keyFiles["pom.xml"]; ok {
		r.add("Java")
		r.buildTools = append(r.buildTools, "Maven")
		r.primaryLanguage = "Java"

		lower := strings.ToLower(content)
		if strings.Contains(lower, "spring") {
			r.add("Spring Boot")
		}
		if strings.Contains(lower, "junit") {
			r.testFrameworks = append(r.testFrameworks, "JUnit")
		}
	}

	if _, ok := keyFiles["build.gradle"]; ok {
		if !r.has("Java") {
			r.add("Java")
			r.primaryLanguage = "Java"
		}
		r.buildTools = append(r.buildTools, "Gradle")
	}

	if _, ok := keyFiles["Cargo.toml"]; ok {
		r.add("Rust")
		r.buildTools = append(r.buildTools, "Cargo")
		r.primaryLanguage = "Rust"
	}

	if hasAny(keyFiles, "requirements.txt", "pyproject.toml", "setup.py") {
		r.add("Python")
		r.buildTools = append(r.buildTools, "pip")
		r.primaryLanguage = "Python"

		if content, ok := keyFiles["pyproject.toml"]; ok {
			lower := strings.ToLower(content)
			if strings.Contains(lower, "django") {
				r.add("Django")
			}
			if strings.Contains(lower, "flask") {
				r.add("Flask")
			}
			if strings.Contains(lower, "fastapi") {
				r.add("FastAPI")
			}
			if strings.Contains(lower, "pytest") {
				r.testFrameworks = append(r.testFrameworks, "pytest")
			}
		}
	}

	if _, ok := keyFiles["go.mod"]; ok {
		r.add("Go")
		r.buildTools = append(r.buildTools, "Go modules")
		r.primaryLanguage = "Go"
	}

	if _, ok := keyFiles["pubspec.yaml"]; ok {
		r.add("Flutter")
		r.buildTools = append(r.buildTools, "Flutter")
		r.primaryLanguage = "Dart"
	}

	if _, ok := keyFiles["composer.json"]; ok {
		r.add("PHP")
		r.buildTools = append(r.buildTools, "Composer")
		r.primaryLanguage = "PHP"
	}

	if hasAny(keyFiles, "Dockerfile", "docker-compose.yml") {
		r.add("Docker")
		r.buildTools = append(r.buildTools, "Docker")
	}

	// Extension-frequency fallback when no config file matched a stack.
	if len(r.techStack) == 0 {
		r.classifyByExtensions(structure.FileExtensions)
	}

	return r
}

func (r *techResult) classifyByExtensions(extensions map[string]int) {
	if hasAnyKey(extensions, ".js", ".jsx", ".ts", ".tsx") {
		r.add("JavaScript")
		r.primaryLanguage = "JavaScript"
		if hasAnyKey(extensions, ".ts", ".tsx") {
			r.add("TypeScript")
			r.primaryLanguage = "TypeScript"
		}
	}
	if _, ok := extensions[".py"]; ok {
		r.add("Python")
		r.primaryLanguage = "Python"
	}
	if _, ok := extensions[".java"]; ok {
		r.add("Java")
		r.primaryLanguage = "Java"
	}
	if _, ok := extensions[".rs"]; ok {
		r.add("Rust")
		r.primaryLanguage = "Rust"
	}
	if _, ok := extensions[".go"]; ok {
		r.add("Go")
		r.primaryLanguage = "Go"
	}
}

func (r *techResult) add(tag string) {
	r.techStack = append(r.techStack, tag)
}

func (r *techResult) has(tag string) bool {
	for _, t := range r.techStack {
		if t == tag {
			return true
		}
	}
	return false
}

func hasAny(keyFiles map[string]string, names ...string) bool {
	for _, n := range names {
		if _, ok := keyFiles[n]; ok {
			return true
		}
	}
	return false
}

func hasAnyKey(m map[string]int, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}
