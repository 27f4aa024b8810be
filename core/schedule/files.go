package schedule

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	assignmentPrefix = "assignment_"
	crossRefPrefix   = "full_schedule_"
	stampLayout      = "20060102_1504"
)

// AssignmentFileName names a saved assignment for day at now.
func AssignmentFileName(day string, now time.Time) string {
	return assignmentPrefix + day + "_" + now.Format(stampLayout) + ".csv"
}

// CrossReferenceFileName names a saved roster x schedule dump.
func CrossReferenceFileName(day string, now time.Time) string {
	return crossRefPrefix + day + "_" + now.Format(stampLayout) + ".csv"
}

// DayFromFileName recovers the day label from an assignment file name.
func DayFromFileName(path string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if !strings.HasPrefix(base, assignmentPrefix) {
		return "", fmt.Errorf("not an assignment file: %s", path)
	}
	rest := strings.TrimPrefix(base, assignmentPrefix)
	// strip the trailing date_time stamp
	for i := 0; i < 2; i++ {
		idx := strings.LastIndex(rest, "_")
		if idx <= 0 {
			return "", fmt.Errorf("no day tag in file name: %s", path)
		}
		rest = rest[:idx]
	}
	return rest, nil
}

// ListAssignmentFiles returns the saved assignment files in dir, sorted.
func ListAssignmentFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, assignmentPrefix+"*.csv"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// FindScheduleFiles lists files in dir matching pattern whose name contains
// dayTag. An empty dayTag matches every file.
func FindScheduleFiles(dir, pattern, dayTag string) ([]string, error) {
	if pattern == "" {
		pattern = "*.csv"
	}
	files, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, f := range files {
		if st, err := os.Stat(f); err != nil || st.IsDir() {
			continue
		}
		if dayTag == "" || strings.Contains(filepath.Base(f), dayTag) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out, nil
}
