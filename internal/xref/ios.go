package xref

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	customClassRe    = regexp.MustCompile(`customClass\s*=\s*["']([A-Z][a-zA-Z0-9_]+)["']`)
	storyboardIDRe   = regexp.MustCompile(`(?:storyboardIdentifier|identifier)\s*=\s*["']([^"']+)["']`)
	swiftImageRe     = regexp.MustCompile(`(?:UIImage\s*\(\s*named:\s*["']|Image\s*\(\s*["']|\.image\s*\(\s*named:\s*["'])([^"']+)["']`)
	swiftColorRe     = regexp.MustCompile(`(?:UIColor\s*\(\s*named:\s*["']|Color\s*\(\s*["'])([^"']+)["']`)
	iosAssetExtKinds = map[string]string{
		"imageset":    "imageset",
		"colorset":    "colorset",
		"appiconset":  "appiconset",
		"launchimage": "launchimage",
		"dataset":     "dataset",
	}
)

// IndexStoryboardUsages scans .storyboard/.xib files under root for
// customClass attributes, classifying each by the enclosing element
// (view controller, cell, view, or other) and recording the
// storyboard/view identifier on the same line when present.
func IndexStoryboardUsages(db *sql.DB, root string) (int, error) {
	lookup, err := newModuleLookup(db)
	if err != nil {
		return 0, err
	}

	files, err := walkFiles(root, func(path string) bool {
		ext := filepath.Ext(path)
		return ext == ".storyboard" || ext == ".xib"
	})
	if err != nil {
		return 0, fmt.Errorf("walk storyboard files: %w", err)
	}

	if _, err := db.Exec(`DELETE FROM storyboard_usages`); err != nil {
		return 0, fmt.Errorf("clear storyboard_usages: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO storyboard_usages (module_id, file_path, line, class_name, usage_type, storyboard_id) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	count := 0
	for _, path := range files {
		relPath := relSlash(root, path)
		moduleID, hasModule := lookup.find(relPath)

		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		for lineNum, line := range strings.Split(string(content), "\n") {
			lineNum++

			var storyboardID any
			if m := storyboardIDRe.FindStringSubmatch(line); m != nil {
				storyboardID = m[1]
			}

			m := customClassRe.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			className := m[1]

			usageType := "other"
			switch {
			case strings.Contains(line, "<viewController"), strings.Contains(line, "<tableViewController"),
				strings.Contains(line, "<collectionViewController"), strings.Contains(line, "<navigationController"),
				strings.Contains(line, "<tabBarController"):
				usageType = "viewController"
			case strings.Contains(line, "<tableViewCell"), strings.Contains(line, "<collectionViewCell"):
				usageType = "cell"
			case strings.Contains(line, "<view"), strings.Contains(line, "<View"):
				usageType = "view"
			}

			if _, err := stmt.Exec(nullableModuleID(moduleID, hasModule), relPath, lineNum, className, usageType, storyboardID); err != nil {
				return count, fmt.Errorf("insert storyboard usage: %w", err)
			}
			count++
		}
	}

	return count, nil
}

// IndexIOSAssets scans every .xcassets catalog under root for image,
// color, app-icon, launch-image, and data sets, then scans Swift
// sources for UIImage(named:)/Image(_:)/UIColor(named:)/Color(_:)
// references to the assets it found.
func IndexIOSAssets(db *sql.DB, root string) (assets int, usages int, err error) {
	lookup, err := newModuleLookup(db)
	if err != nil {
		return 0, 0, err
	}

	var xcassetsDirs []string
	walkErr := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && isAndroidSkipDir(info.Name()) {
			return filepath.SkipDir
		}
		if filepath.Ext(path) == ".xcassets" {
			xcassetsDirs = append(xcassetsDirs, path)
		}
		return nil
	})
	if walkErr != nil {
		return 0, 0, fmt.Errorf("walk xcassets dirs: %w", walkErr)
	}

	if _, err := db.Exec(`DELETE FROM ios_asset_usages`); err != nil {
		return 0, 0, fmt.Errorf("clear ios_asset_usages: %w", err)
	}
	if _, err := db.Exec(`DELETE FROM ios_assets`); err != nil {
		return 0, 0, fmt.Errorf("clear ios_assets: %w", err)
	}

	assetStmt, err := db.Prepare(`INSERT INTO ios_assets (module_id, type, name, file_path) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, 0, err
	}
	defer assetStmt.Close()

	assetCount := 0
	for _, dir := range xcassetsDirs {
		relDir := relSlash(root, dir)
		moduleID, hasModule := lookup.find(relDir)
		mID := nullableModuleID(moduleID, hasModule)

		walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil || !info.IsDir() {
				return nil
			}
			kind, ok := iosAssetExtKinds[strings.TrimPrefix(filepath.Ext(path), ".")]
			if !ok {
				return nil
			}
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			relPath := relSlash(root, path)
			if _, err := assetStmt.Exec(mID, kind, name, relPath); err != nil {
				return err
			}
			assetCount++
			return nil
		})
		if walkErr != nil {
			return assetCount, 0, fmt.Errorf("walk xcassets catalog %s: %w", relDir, walkErr)
		}
	}

	assetIDs, err := loadAssetIDs(db)
	if err != nil {
		return assetCount, 0, err
	}

	swiftFiles, err := walkFiles(root, func(path string) bool {
		return filepath.Ext(path) == ".swift"
	})
	if err != nil {
		return assetCount, 0, fmt.Errorf("walk swift files: %w", err)
	}

	usageStmt, err := db.Prepare(`INSERT INTO ios_asset_usages (asset_id, usage_file, usage_line, usage_type) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return assetCount, 0, err
	}
	defer usageStmt.Close()

	usageCount := 0
	for _, path := range swiftFiles {
		relPath := relSlash(root, path)
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		for lineNum, line := range strings.Split(string(content), "\n") {
			lineNum++
			for _, re := range [...]*regexp.Regexp{swiftImageRe, swiftColorRe} {
				for _, m := range re.FindAllStringSubmatch(line, -1) {
					if id, ok := assetIDs[m[1]]; ok {
						if _, err := usageStmt.Exec(id, relPath, lineNum, "code"); err != nil {
							return assetCount, usageCount, fmt.Errorf("insert asset usage: %w", err)
						}
						usageCount++
					}
				}
			}
		}
	}

	return assetCount, usageCount, nil
}

func loadAssetIDs(db *sql.DB) (map[string]int64, error) {
	rows, err := db.Query(`SELECT id, name FROM ios_assets`)
	if err != nil {
		return nil, fmt.Errorf("load ios_assets: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]int64)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		ids[name] = id
	}
	return ids, rows.Err()
}
