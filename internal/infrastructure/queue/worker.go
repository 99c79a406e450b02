package queue

import (
	"context"
	"errors"
	"log"
	"sync"
)

type Worker struct {
	ID         int
	Transport  Transport
	Dispatcher *Dispatcher
	Wg         *sync.WaitGroup
}

func (w *Worker) Start(ctx context.Context) {
	go func() {
		defer w.Wg.Done()
		for {
			select {
			case <-ctx.Done():
				log.Printf("Worker %d: stopping due to context cancellation", w.ID)
				return
			default:
			}

			payload, err := w.Transport.Pop(ctx)
			if errors.Is(err, ErrNoJob) {
				continue
			}
			if err != nil {
				if ctx.Err() != nil {
					log.Printf("Worker %d: stopping due to context cancellation", w.ID)
					return
				}
				log.Printf("Worker %d: pop failed: %v", w.ID, err)
				continue
			}

			if err := w.Dispatcher.Process(ctx, payload); err != nil {
				log.Printf("Worker %d: job processing failed: %v", w.ID, err)
			}
		}
	}()
}
