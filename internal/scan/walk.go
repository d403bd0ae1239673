package scan

import (
	"io"
	"os"
	"path/filepath"
)

// File is one file the walk surfaced as a scan candidate, after ignore
// filtering and binary detection but before content matching.
type File struct {
	AbsPath string
	RelPath string // slash-separated, relative to root
	Binary  bool
}

// WalkOptions configures Walk.
type WalkOptions struct {
	Includes          []string
	Excludes          []string
	ExtraIgnoreRules  []rule // global ignore file + .git/info/exclude
	UnrestrictedLevel int    // 0, 1, 2, or 3 (spec.md §4.2)
}

// WalkResult is everything Walk discovered: files are scan candidates,
// Dirs are the surviving directory paths (relative to root, excluding root
// itself) eligible as rename candidates per spec.md §4.2.
type WalkResult struct {
	Files []File
	Dirs  []string
}

// Walk traverses root depth-first, honoring the ignore stack described in
// spec.md §4.2 and §6.4, and returns every regular file and directory that
// survives filtering. Binary detection is skipped (Binary always false)
// when UnrestrictedLevel >= 3. The root directory itself is never included.
func Walk(root string, opts WalkOptions) (WalkResult, error) {
	stack := NewStack(root, opts.ExtraIgnoreRules, opts.Includes, opts.Excludes, opts.UnrestrictedLevel)

	var result WalkResult
	var walkDir func(dir, rel string) error
	walkDir = func(dir, rel string) error {
		if err := stack.Push(dir); err != nil {
			return err
		}
		defer stack.Pop()

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}

		for _, entry := range entries {
			childRel := entry.Name()
			if rel != "" {
				childRel = rel + "/" + entry.Name()
			}
			childAbs := filepath.Join(dir, entry.Name())

			if entry.IsDir() {
				if entry.Name() == ".git" {
					continue // never scanned or walked into; history/lock state live elsewhere
				}
				if stack.ShouldSkip(childRel, true) {
					continue
				}
				result.Dirs = append(result.Dirs, childRel)
				if err := walkDir(childAbs, childRel); err != nil {
					return err
				}
				continue
			}

			if entry.Type()&os.ModeSymlink != 0 {
				continue
			}
			if stack.ShouldSkip(childRel, false) {
				continue
			}

			f := File{AbsPath: childAbs, RelPath: childRel}
			if opts.UnrestrictedLevel < 3 {
				probe, err := readProbe(childAbs)
				if err != nil {
					continue // unreadable file: skip rather than fail the whole scan
				}
				f.Binary = IsBinary(probe)
			}
			result.Files = append(result.Files, f)
		}
		return nil
	}

	if err := walkDir(root, ""); err != nil {
		return WalkResult{}, err
	}
	return result, nil
}

func readProbe(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	buf := make([]byte, binaryProbeBytes)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}
	return buf[:n], nil
}

// LoadExtraIgnoreRules reads the global ignore file and the repository's
// excludes file (each optional — pass "" to skip), returning their combined
// rules at the lowest precedence in the ignore stack (spec.md §6.4).
// excludesFile is resolved by the caller via gitutil.Repo.ExcludesFile,
// which finds it whether or not the scan root is the repository root.
func LoadExtraIgnoreRules(globalIgnoreFile, excludesFile string) ([]rule, error) {
	var out []rule
	if globalIgnoreFile != "" {
		rules, err := parseIgnoreFile(globalIgnoreFile, false)
		if err != nil {
			return nil, err
		}
		out = append(out, rules...)
	}
	if excludesFile != "" {
		excludeRules, err := parseIgnoreFile(excludesFile, false)
		if err != nil {
			return nil, err
		}
		out = append(out, excludeRules...)
	}
	return out, nil
}
