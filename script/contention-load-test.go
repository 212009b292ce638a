package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

type actor struct {
	id   string
	role string
}

type reserveBody struct {
	PropertyID string `json:"propertyId"`
	AgentID    string `json:"agentId"`
}

type noteBody struct {
	Body     string `json:"body"`
	Category string `json:"category"`
}

type transactionView struct {
	ID      string            `json:"id"`
	Version uint64            `json:"version"`
	Notes   []json.RawMessage `json:"notes"`
}

// result of a single request
type result struct {
	status  int
	elapsed time.Duration
	err     error
}

// stats aggregates results by HTTP status
type stats struct {
	mu       sync.Mutex
	byStatus map[int]int
	errors   map[string]int
	times    []time.Duration
}

func (s *stats) add(r result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.err != nil {
		s.errors[r.err.Error()]++
		return
	}
	s.byStatus[r.status]++
	s.times = append(s.times, r.elapsed)
}

func main() {
	concurrency := flag.Int("c", 8, "Number of concurrent writers")
	totalRequests := flag.Int("n", 200, "Total number of note writes")
	baseURL := flag.String("url", "http://localhost:8080", "Base URL for the API")
	propertyID := flag.String("property", "prop-1001", "Validated property to reserve")
	agentID := flag.String("agent", "agent-1", "Agent listing the property")
	buyerID := flag.String("buyer", "load-buyer-1", "Buyer identity used for the run")
	delayMs := flag.Int("delay", 0, "Delay between requests per worker in milliseconds")
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}
	buyer := actor{id: *buyerID, role: "buyer"}

	var tx transactionView
	status, err := call(client, http.MethodPost, *baseURL+"/transactions", buyer,
		reserveBody{PropertyID: *propertyID, AgentID: *agentID}, &tx)
	if err != nil || status != http.StatusCreated {
		fmt.Printf("Reservation failed: status=%d err=%v\n", status, err)
		os.Exit(1)
	}
	notesBefore := len(tx.Notes)

	fmt.Printf("Hammering transaction %s with %d note writes across %d workers\n", tx.ID, *totalRequests, *concurrency)

	s := &stats{byStatus: map[int]int{}, errors: map[string]int{}}
	jobs := make(chan int, *totalRequests)
	for i := 0; i < *totalRequests; i++ {
		jobs <- i
	}
	close(jobs)

	start := time.Now()
	var wg sync.WaitGroup
	for w := 0; w < *concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for job := range jobs {
				if *delayMs > 0 {
					time.Sleep(time.Duration(*delayMs) * time.Millisecond)
				}
				began := time.Now()
				status, err := call(client, http.MethodPost, *baseURL+"/transactions/"+tx.ID+"/notes", buyer,
					noteBody{Body: fmt.Sprintf("load note %d from worker %d", job, worker), Category: "general"}, nil)
				s.add(result{status: status, elapsed: time.Since(began), err: err})
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)

	var final transactionView
	if _, err := call(client, http.MethodGet, *baseURL+"/transactions/"+tx.ID, buyer, nil, &final); err != nil {
		fmt.Printf("Final read failed: %v\n", err)
		os.Exit(1)
	}

	printResults(s, total, len(final.Notes)-notesBefore, final.Version)
}

func call(client *http.Client, method, url string, who actor, body, out any) (int, error) {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		payload = raw
	}
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Actor-ID", who.id)
	req.Header.Set("X-Actor-Role", who.role)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[len(sorted)*p/100]
}

func printResults(s *stats, total time.Duration, notesWritten int, version uint64) {
	sort.Slice(s.times, func(i, j int) bool { return s.times[i] < s.times[j] })

	created := s.byStatus[http.StatusCreated]
	fmt.Println("\n================= RESULTS =================")
	fmt.Printf("Total time:          %.2fs\n", total.Seconds())
	fmt.Printf("Writes per second:   %.2f\n", float64(created)/total.Seconds())
	for status, count := range s.byStatus {
		fmt.Printf("HTTP %d:            %d\n", status, count)
	}
	for msg, count := range s.errors {
		fmt.Printf("%-40s: %d\n", msg, count)
	}

	fmt.Println("\n--------------- RESPONSE TIMES ---------------")
	fmt.Printf("P50: %v  P90: %v  P99: %v\n", percentile(s.times, 50), percentile(s.times, 90), percentile(s.times, 99))

	fmt.Println("\n--------------- CONSISTENCY ---------------")
	fmt.Printf("Accepted writes:     %d\n", created)
	fmt.Printf("Notes persisted:     %d\n", notesWritten)
	fmt.Printf("Final version:       %d\n", version)
	if notesWritten == created {
		fmt.Println("OK: every accepted write is visible, none were lost")
	} else {
		fmt.Println("FAIL: accepted writes and persisted notes differ")
		os.Exit(1)
	}
}
