// Command sessionprobe exercises a running strokecore service: it starts a
// session, polls snapshots for a while, then ends the session and prints the
// final state.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aquametrics/strokecore/internal/domain/types"
)

func main() {
	baseURL := flag.String("url", "http://localhost:9180", "strokecore base URL")
	duration := flag.Duration("duration", 30*time.Second, "how long to keep the session running")
	poll := flag.Duration("poll", 2*time.Second, "snapshot polling interval")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	snap, err := post(client, *baseURL+"/session/start")
	if err != nil {
		fmt.Fprintln(os.Stderr, "start session:", err)
		os.Exit(1)
	}
	fmt.Printf("session %s started\n", snap.SessionID)

	deadline := time.Now().Add(*duration)
	for time.Now().Before(deadline) {
		time.Sleep(*poll)
		snap, err = get(client, *baseURL+"/snapshot")
		if err != nil {
			fmt.Fprintln(os.Stderr, "snapshot:", err)
			continue
		}
		fmt.Printf("t=%3ds strokes=%-4d rate=%5.1f/min pose=%v\n",
			snap.ElapsedSeconds, snap.StrokeCount, snap.StrokeRate, snap.PoseDetected)
	}

	final, err := post(client, *baseURL+"/session/end")
	if err != nil {
		fmt.Fprintln(os.Stderr, "end session:", err)
		os.Exit(1)
	}
	out, _ := json.MarshalIndent(final, "", "  ")
	fmt.Println(string(out))
}

func post(client *http.Client, url string) (types.Snapshot, error) {
	resp, err := client.Post(url, "application/json", nil)
	if err != nil {
		return types.Snapshot{}, err
	}
	defer resp.Body.Close()
	return decode(resp)
}

func get(client *http.Client, url string) (types.Snapshot, error) {
	resp, err := client.Get(url)
	if err != nil {
		return types.Snapshot{}, err
	}
	defer resp.Body.Close()
	return decode(resp)
}

func decode(resp *http.Response) (types.Snapshot, error) {
	if resp.StatusCode != http.StatusOK {
		return types.Snapshot{}, fmt.Errorf("unexpected status %s", resp.Status)
	}
	var snap types.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return types.Snapshot{}, err
	}
	return snap, nil
}
