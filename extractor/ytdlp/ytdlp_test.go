package ytdlp

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	assert_ "github.com/stretchr/testify/assert"
	require_ "github.com/stretchr/testify/require"

	"github.com/alanbriolat/video-downloader"
)

func TestToProgressEvent(t *testing.T) {
	assert := assert_.New(t)

	event, ok := toProgressEvent("downloading", 50, 200)
	if assert.True(ok) {
		assert.Equal(video_downloader.ProgressDownloading, event.Status)
		percent, ok := event.Percent()
		assert.True(ok)
		assert.Equal(25.0, percent)
	}

	event, ok = toProgressEvent("starting", 0, 0)
	if assert.True(ok) {
		assert.Equal(video_downloader.ProgressStarting, event.Status)
		assert.True(event.TotalBytes.IsNone())
	}

	// Unknown total while downloading
	event, ok = toProgressEvent("downloading", int64(1024), int64(0))
	if assert.True(ok) {
		_, ok = event.Percent()
		assert.False(ok)
	}

	for _, status := range []string{"post_processing", "finished"} {
		event, ok = toProgressEvent(status, 200, 200)
		if assert.True(ok, status) {
			assert.Equal(video_downloader.ProgressFinished, event.Status)
		}
	}

	_, ok = toProgressEvent("error", 0, 0)
	assert.False(ok)
}

func TestWithStderr(t *testing.T) {
	assert := assert_.New(t)
	base := errors.New("exit status 1")

	assert.Same(base, withStderr(base, ""))
	assert.Same(base, withStderr(base, "  \n"))

	err := withStderr(base, "WARNING: something\nERROR: [youtube] abc: Private video\n")
	assert.ErrorIs(err, base)
	assert.Equal("exit status 1: WARNING: something; ERROR: [youtube] abc: Private video", err.Error())
	assert.Equal(video_downloader.FailureAccessDenied, video_downloader.ClassifyFailure(err.Error()))

	err = withStderr(base, "1\n2\n3\n4\n5\n6\n7")
	assert.Equal("exit status 1: 3; 4; 5; 6; 7", err.Error())

	// Already included
	included := errors.New("failed: ERROR: Unsupported URL")
	assert.Same(included, withStderr(included, "ERROR: Unsupported URL"))
}

// fakeYtDlp is a stand-in yt-dlp: it appends its arguments to a log, prints an info JSON line for --skip-download,
// otherwise prints a progress line and writes the file. URLs containing "private" fail like yt-dlp does.
const fakeYtDlp = `#!/bin/sh
printf '%s\n' "$@" >> '@LOG@'
echo '====' >> '@LOG@'
skip=0
for arg in "$@"; do
	if [ "$arg" = "--skip-download" ]; then
		skip=1
	fi
	url="$arg"
done
case "$url" in
*private*)
	echo "WARNING: [youtube] abc123: checking access"
	echo "ERROR: [youtube] abc123: Private video. Sign in if you've been granted access to this video" >&2
	exit 1
	;;
esac
if [ "$skip" = 1 ]; then
	echo '{"_type":"video","id":"abc123","title":"My Title","ext":"mp4","filename":"@FILE@"}'
	exit 0
fi
echo 'progress:{"info":{"_type":"video","id":"abc123"},"progress":{"status":"downloading","downloaded_bytes":50,"total_bytes":100,"filename":"@FILE@.part"}}'
printf 'data' > '@FILE@'
`

type fakeInstall struct {
	executable string
	log        string
	dir        string
	target     string
}

func installFakeYtDlp(t *testing.T) fakeInstall {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	root := t.TempDir()
	install := fakeInstall{
		executable: filepath.Join(root, "yt-dlp"),
		log:        filepath.Join(root, "args.log"),
		dir:        filepath.Join(root, "out"),
	}
	install.target = filepath.Join(install.dir, "My Title.mp4")
	script := strings.NewReplacer("@LOG@", install.log, "@FILE@", install.target).Replace(fakeYtDlp)
	assert_.NoError(t, os.WriteFile(install.executable, []byte(script), 0755))
	return install
}

// invocations returns the arguments of each run of the fake, in order.
func (f fakeInstall) invocations(t *testing.T) [][]string {
	data, err := os.ReadFile(f.log)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	assert_.NoError(t, err)
	var runs [][]string
	for _, run := range strings.Split(strings.TrimSuffix(string(data), "====\n"), "====\n") {
		runs = append(runs, strings.Split(strings.TrimSuffix(run, "\n"), "\n"))
	}
	return runs
}

// hasFlag reports whether args contain flag, immediately followed by value if one is given.
func hasFlag(args []string, flag string, value ...string) bool {
	for i, arg := range args {
		if arg != flag {
			continue
		}
		if len(value) == 0 || (i+1 < len(args) && args[i+1] == value[0]) {
			return true
		}
	}
	return false
}

func TestDownloadThroughYtDlp(t *testing.T) {
	assert := assert_.New(t)
	require := require_.New(t)
	fake := installFakeYtDlp(t)
	config := video_downloader.DefaultConfig
	config.YtDlpPath = fake.executable
	config.FFmpegPath = "/opt/ffmpeg/bin/ffmpeg"
	downloader := video_downloader.NewDownloader(config, New(config))
	req := video_downloader.NewDownloadRequest("https://www.youtube.com/watch?v=abc123", video_downloader.YouTube, fake.dir)

	var events []video_downloader.ProgressEvent
	outcome := downloader.Download(context.Background(), req, func(event video_downloader.ProgressEvent) {
		events = append(events, event)
	})
	require.True(outcome.IsSuccess(), "unexpected failure: %v", outcome.Err)
	assert.False(outcome.AlreadyExisted)
	assert.Equal(fake.target, outcome.Path)
	data, err := os.ReadFile(fake.target)
	assert.NoError(err)
	assert.Equal("data", string(data))

	if assert.Len(events, 1) {
		assert.Equal(video_downloader.ProgressDownloading, events[0].Status)
		assert.Equal(int64(50), events[0].DownloadedBytes.Unwrap())
		assert.Equal(int64(100), events[0].TotalBytes.Unwrap())
	}

	runs := fake.invocations(t)
	require.Len(runs, 2)
	recon, fetch := runs[0], runs[1]
	for _, args := range runs {
		assert.True(hasFlag(args, "--format", "best"), args)
		assert.True(hasFlag(args, "--merge-output-format", "mp4"), args)
		assert.True(hasFlag(args, "--output", filepath.Join(fake.dir, "%(title)s.%(ext)s")), args)
		assert.True(hasFlag(args, "--no-overwrites"), args)
		assert.True(hasFlag(args, "--no-playlist"), args)
		assert.True(hasFlag(args, "--ffmpeg-location", "/opt/ffmpeg/bin/ffmpeg"), args)
		assert.Equal("https://www.youtube.com/watch?v=abc123", args[len(args)-1])
	}
	assert.True(hasFlag(recon, "--skip-download"))
	assert.True(hasFlag(recon, "--print-json"))
	assert.False(hasFlag(recon, "--progress-template"))
	assert.False(hasFlag(fetch, "--skip-download"))
	assert.True(hasFlag(fetch, "--progress-template"))

	// The file is there now, so only recon runs
	outcome = downloader.Download(context.Background(), req, nil)
	assert.True(outcome.IsSuccess())
	assert.True(outcome.AlreadyExisted)
	assert.Equal(fake.target, outcome.Path)
	runs = fake.invocations(t)
	if assert.Len(runs, 3) {
		assert.True(hasFlag(runs[2], "--skip-download"))
	}
}

func TestReconThroughYtDlp(t *testing.T) {
	assert := assert_.New(t)
	fake := installFakeYtDlp(t)
	config := video_downloader.DefaultConfig
	config.YtDlpPath = fake.executable
	req := video_downloader.NewDownloadRequest("https://youtu.be/abc123", video_downloader.YouTube, fake.dir)

	info, err := New(config).Recon(context.Background(), req, fake.dir)
	if assert.NoError(err) {
		assert.Equal("abc123", info.ID)
		assert.Equal("My Title", info.Title)
		assert.Equal("mp4", info.Ext)
		assert.Equal(fake.target, info.Filename)
	}
	runs := fake.invocations(t)
	if assert.Len(runs, 1) {
		// The default ffmpeg is found on PATH by yt-dlp itself
		assert.False(hasFlag(runs[0], "--ffmpeg-location"))
	}
}

func TestFailureThroughYtDlp(t *testing.T) {
	assert := assert_.New(t)
	fake := installFakeYtDlp(t)
	config := video_downloader.DefaultConfig
	config.YtDlpPath = fake.executable
	downloader := video_downloader.NewDownloader(config, New(config))
	req := video_downloader.NewDownloadRequest("https://www.instagram.com/p/private123/", video_downloader.Instagram, fake.dir)

	outcome := downloader.Download(context.Background(), req, nil)
	if assert.False(outcome.IsSuccess()) {
		assert.Equal(video_downloader.FailureAccessDenied, outcome.Err.Category)
		assert.Contains(outcome.Err.Message, "Private video")
	}
	assert.Len(fake.invocations(t), 1)
	assert.NoFileExists(fake.target)
}
