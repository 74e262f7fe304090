package systems

import (
	"fmt"
	"sync"

	"github.com/spaghettifunk/gin/engine/core"
)

// Job is a unit of work for the JobSystem. Run executes on a worker
// goroutine and must not touch GL. OnComplete or OnFailure run later on the
// goroutine calling Update, the one owning the GL context.
type Job struct {
	Name       string
	Run        func() (any, error)
	OnComplete func(result any)
	OnFailure  func(err error)
}

type jobResult struct {
	job    Job
	result any
	err    error
}

type JobSystem struct {
	numWorkers int
	jobQueue   chan Job
	wg         sync.WaitGroup

	mutex    sync.Mutex
	finished []jobResult
	inflight sync.WaitGroup
}

var ErrNoWorkers = fmt.Errorf("attempting to create worker pool with less than 1 worker")
var ErrNegativeChannelSize = fmt.Errorf("attempting to create worker pool with a negative channel size")

func NewJobSystem(numWorkers int, channelSize int) (*JobSystem, error) {
	if numWorkers <= 0 {
		return nil, ErrNoWorkers
	}
	if channelSize < 0 {
		return nil, ErrNegativeChannelSize
	}

	js := &JobSystem{
		numWorkers: numWorkers,
		jobQueue:   make(chan Job, channelSize),
	}
	js.start()
	return js, nil
}

func (js *JobSystem) start() {
	for i := 0; i < js.numWorkers; i++ {
		js.wg.Add(1)
		go func() {
			defer js.wg.Done()
			for job := range js.jobQueue {
				result, err := job.Run()
				if err != nil {
					core.LogError("job %s failed: %s", job.Name, err)
				}
				js.mutex.Lock()
				js.finished = append(js.finished, jobResult{job: job, result: result, err: err})
				js.mutex.Unlock()
				js.inflight.Done()
			}
		}()
	}
}

// Submit queues a job, blocking while the queue is full.
func (js *JobSystem) Submit(job Job) {
	js.inflight.Add(1)
	js.jobQueue <- job
}

// Update runs the callbacks of the jobs finished since the last call and
// returns how many there were. Should happen once an update cycle.
func (js *JobSystem) Update() int {
	js.mutex.Lock()
	finished := js.finished
	js.finished = nil
	js.mutex.Unlock()

	for _, r := range finished {
		switch {
		case r.err != nil && r.job.OnFailure != nil:
			r.job.OnFailure(r.err)
		case r.err == nil && r.job.OnComplete != nil:
			r.job.OnComplete(r.result)
		}
	}
	return len(finished)
}

// Flush waits for every submitted job and runs their callbacks.
func (js *JobSystem) Flush() {
	js.inflight.Wait()
	js.Update()
}

// Shutdown finishes the queued jobs and stops the workers.
func (js *JobSystem) Shutdown() error {
	close(js.jobQueue)
	js.wg.Wait()
	js.Update()
	return nil
}
