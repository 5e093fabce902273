package hyp3

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// DownloadFiles downloads every product file attached to a succeeded job
// into dir, returning the local paths. Files that already exist with the
// expected size are skipped. Archives are left as-is; use ExtractZip to
// unpack them.
func (c *Client) DownloadFiles(ctx context.Context, job Job, dir string) ([]string, error) {
	if !job.Status.Terminal() {
		return nil, fmt.Errorf("job %s has not finished (status %s)", job.JobID, job.Status)
	}
	if job.Status == StatusFailed {
		return nil, fmt.Errorf("job %s failed, no files to download", job.JobID)
	}
	if len(job.Files) == 0 {
		return nil, fmt.Errorf("job %s has no files; the product may have expired", job.JobID)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create download directory: %w", err)
	}

	paths := make([]string, 0, len(job.Files))
	for _, file := range job.Files {
		dest := filepath.Join(dir, file.Filename)
		if info, err := os.Stat(dest); err == nil && info.Size() == file.Size {
			c.logger.DebugContext(ctx, "file already downloaded, skipping",
				slog.String("filename", file.Filename),
			)
			paths = append(paths, dest)
			continue
		}
		if err := c.downloadFile(ctx, file.URL, dest); err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", file.Filename, err)
		}
		c.logger.InfoContext(ctx, "downloaded product file",
			slog.String("job_id", job.JobID),
			slog.String("filename", file.Filename),
			slog.Int64("size", file.Size),
		)
		paths = append(paths, dest)
	}
	return paths, nil
}

// downloadFile streams url to a temporary file next to dest and renames it
// into place, so interrupted downloads never leave a partial file behind.
func (c *Client) downloadFile(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	return os.Rename(tmp.Name(), dest)
}

// ExtractZip unpacks a product archive into dir and returns the directory
// the archive's contents were extracted into. When every entry lives under
// a single top-level directory that directory is returned, otherwise dir.
func ExtractZip(archivePath, dir string) (string, error) {
	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return "", fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	roots := make(map[string]struct{})
	for _, file := range reader.File {
		if err := extractZipEntry(file, dir); err != nil {
			return "", fmt.Errorf("failed to extract %s: %w", file.Name, err)
		}
		// Archive entry names always use forward slashes.
		if i := strings.IndexByte(file.Name, '/'); i > 0 {
			roots[file.Name[:i]] = struct{}{}
		} else if !file.FileInfo().IsDir() {
			roots[""] = struct{}{}
		}
	}
	if len(roots) == 1 {
		for root := range roots {
			if root != "" {
				return filepath.Join(dir, root), nil
			}
		}
	}
	return dir, nil
}

func extractZipEntry(file *zip.File, dir string) error {
	dest := filepath.Join(dir, file.Name)
	// Reject entries that escape the extraction directory.
	if !strings.HasPrefix(dest, filepath.Clean(dir)+string(os.PathSeparator)) {
		return fmt.Errorf("illegal archive path %q", file.Name)
	}

	if file.FileInfo().IsDir() {
		return os.MkdirAll(dest, 0o755)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, file.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
