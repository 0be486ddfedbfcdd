package xref

import (
	"path/filepath"
	"testing"
)

func TestIndexStoryboardUsagesClassifiesElements(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App", "Main.storyboard"), `<?xml version="1.0"?>
<document>
    <scene>
        <viewController customClass="ProfileViewController" storyboardIdentifier="ProfileVC">
        </viewController>
        <tableViewCell customClass="AvatarCell" identifier="avatarCell">
        </tableViewCell>
    </scene>
</document>
`)

	s := openTestStore(t)
	count, err := IndexStoryboardUsages(s.DB(), root)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Fatalf("expected 2 storyboard usages, got %d", count)
	}

	var usageType, storyboardID string
	row := s.DB().QueryRow(`SELECT usage_type, storyboard_id FROM storyboard_usages WHERE class_name = 'ProfileViewController'`)
	if err := row.Scan(&usageType, &storyboardID); err != nil {
		t.Fatal(err)
	}
	if usageType != "viewController" || storyboardID != "ProfileVC" {
		t.Errorf("expected viewController/ProfileVC, got %q/%q", usageType, storyboardID)
	}

	row = s.DB().QueryRow(`SELECT usage_type FROM storyboard_usages WHERE class_name = 'AvatarCell'`)
	if err := row.Scan(&usageType); err != nil {
		t.Fatal(err)
	}
	if usageType != "cell" {
		t.Errorf("expected cell usage type, got %q", usageType)
	}
}

func TestIndexIOSAssetsFindsCatalogEntriesAndUsages(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "App", "Assets.xcassets", "AppIcon.appiconset", "Contents.json"), "{}")
	writeFile(t, filepath.Join(root, "App", "Assets.xcassets", "Logo.imageset", "Contents.json"), "{}")
	writeFile(t, filepath.Join(root, "App", "ProfileView.swift"), `
struct ProfileView {
    var body: some View {
        Image("Logo")
    }
}
`)

	s := openTestStore(t)
	assets, usages, err := IndexIOSAssets(s.DB(), root)
	if err != nil {
		t.Fatal(err)
	}
	if assets != 2 {
		t.Fatalf("expected 2 assets (AppIcon, Logo), got %d", assets)
	}
	if usages != 1 {
		t.Fatalf("expected 1 usage of Logo, got %d", usages)
	}
}
