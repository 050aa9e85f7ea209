package config

import (
	"path/filepath"
	"slices"
	"strings"
)

// Dataset is a named benchmark: a source snapshot, its bug report archive
// and where the extracted feature table goes. Paths are relative to the
// data directory. RepoDir is the checkout root when SourceDir is a
// subdirectory of it.
type Dataset struct {
	Name         string
	SourceDir    string
	RepoDir      string
	ReportsFile  string
	RepoURL      string
	FeaturesFile string
	PathPrefix   string
}

// Datasets are the built in presets.
var Datasets = map[string]Dataset{
	"aspectj": {
		Name:         "aspectj",
		SourceDir:    "org.aspectj",
		ReportsFile:  "AspectJ.txt",
		RepoURL:      "https://github.com/eclipse/org.aspectj.git",
		FeaturesFile: "features2.csv",
	},
	"eclipse": {
		Name:         "eclipse",
		SourceDir:    "eclipse.platform.ui/bundles",
		RepoDir:      "eclipse.platform.ui",
		ReportsFile:  "Eclipse_Platform_UI.txt",
		RepoURL:      "https://github.com/eclipse/eclipse.platform.ui.git",
		FeaturesFile: "features.csv",
		PathPrefix:   "bundles/",
	},
	"swt": {
		Name:         "swt",
		SourceDir:    "eclipse.platform.swt",
		ReportsFile:  "SWT.txt",
		RepoURL:      "https://github.com/eclipse/eclipse.platform.swt.git",
		FeaturesFile: "features_swt.csv",
	},
	"tomcat": {
		Name:         "tomcat",
		SourceDir:    "tomcat",
		ReportsFile:  "Tomcat.txt",
		RepoURL:      "https://github.com/apache/tomcat.git",
		FeaturesFile: "features_tomcat.csv",
	},
}

// DatasetNames returns the preset names in sorted order.
func DatasetNames() []string {
	names := make([]string, 0, len(Datasets))
	for name := range Datasets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// LookupDataset finds a preset by case insensitive name.
func LookupDataset(name string) (Dataset, bool) {
	d, ok := Datasets[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// applyDataset fills paths the user left empty from the selected preset.
func applyDataset(s *Settings) {
	d, ok := LookupDataset(s.Dataset)
	if !ok {
		return
	}
	s.Dataset = d.Name

	if s.Corpus.Dir == "" {
		s.Corpus.Dir = filepath.Join(s.DataDir, d.SourceDir)
	}
	if s.Corpus.RepoDir == "" && d.RepoDir != "" {
		s.Corpus.RepoDir = filepath.Join(s.DataDir, d.RepoDir)
	}
	if s.Corpus.RepoURL == "" {
		s.Corpus.RepoURL = d.RepoURL
	}
	if s.Reports.Path == "" {
		s.Reports.Path = filepath.Join(s.DataDir, d.ReportsFile)
	}
	if s.Reports.PathPrefix == "" {
		s.Reports.PathPrefix = d.PathPrefix
	}
	if s.Extraction.Output == "" {
		s.Extraction.Output = filepath.Join(s.DataDir, d.FeaturesFile)
	}
}
