package snapshot

import (
	"bufio"
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Field labels of the metadata record, one field per line.
const (
	labelName           = "Checkpoint Name:"
	labelProjectPath    = "Original Project Path:"
	labelCreationTime   = "Creation Time:"
	labelFolder         = "Timestamped Folder:"
	labelFilesCopied    = "Files Copied:"
	labelFoldersCreated = "Folders Created (in backup):"
	labelExclusions     = "Exclusions Used ("
	labelFormatVersion  = "Format Version:"
	exclusionItemPrefix = "- "
)

// Encode renders md in the metadata record format. Exclusions are written
// sorted and the format version line comes last.
func (md Metadata) Encode() []byte {
	excl := slices.Clone(md.Exclusions)
	slices.Sort(excl)

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %s\n", labelName, md.Name)
	fmt.Fprintf(&b, "%s %s\n", labelProjectPath, md.ProjectPath)
	fmt.Fprintf(&b, "%s %s\n", labelCreationTime, md.CreationTime)
	fmt.Fprintf(&b, "%s %s\n", labelFolder, md.Folder)
	fmt.Fprintf(&b, "%s %d\n", labelFilesCopied, md.FilesCopied)
	fmt.Fprintf(&b, "%s %d\n", labelFoldersCreated, md.FoldersCreated)
	fmt.Fprintf(&b, "%s%d):\n", labelExclusions, len(excl))
	for _, e := range excl {
		fmt.Fprintf(&b, "%s%s\n", exclusionItemPrefix, e)
	}
	fmt.Fprintf(&b, "%s %d\n", labelFormatVersion, MetadataFormatVersion)
	return b.Bytes()
}

// ParseMetadata reads a metadata record. Lines are matched by label prefix
// and unknown lines are ignored, so a record missing every field still
// parses to a zero Metadata. Malformed counts are left at zero.
func ParseMetadata(data []byte) Metadata {
	var md Metadata
	inExclusions := false

	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), len(data)+1)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")

		if inExclusions {
			if item, ok := strings.CutPrefix(line, exclusionItemPrefix); ok {
				md.Exclusions = append(md.Exclusions, strings.TrimSpace(item))
				continue
			}
			inExclusions = false
		}

		switch {
		case strings.HasPrefix(line, labelName):
			md.Name = value(line, labelName)
		case strings.HasPrefix(line, labelProjectPath):
			md.ProjectPath = value(line, labelProjectPath)
		case strings.HasPrefix(line, labelCreationTime):
			md.CreationTime = value(line, labelCreationTime)
		case strings.HasPrefix(line, labelFolder):
			md.Folder = value(line, labelFolder)
		case strings.HasPrefix(line, labelFilesCopied):
			md.FilesCopied = intValue(line, labelFilesCopied)
		case strings.HasPrefix(line, labelFoldersCreated):
			md.FoldersCreated = intValue(line, labelFoldersCreated)
		case strings.HasPrefix(line, labelExclusions):
			inExclusions = true
		case strings.HasPrefix(line, labelFormatVersion):
			md.FormatVersion = intValue(line, labelFormatVersion)
		}
	}
	return md
}

func value(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

func intValue(line, label string) int {
	n, err := strconv.Atoi(value(line, label))
	if err != nil {
		return 0
	}
	return n
}
