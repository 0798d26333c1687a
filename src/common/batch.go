package common

import (
	"golang.org/x/sync/errgroup"
)

// Jobs builds one job per size from a destination pattern containing {n}
func (p *ImageProcessor) Jobs(src string, sizes []SizeSpec, pattern string) []IconJob {
	jobs := make([]IconJob, 0, len(sizes))
	for _, size := range sizes {
		jobs = append(jobs, IconJob{
			Source: src,
			Size:   size,
			Fill:   p.Fill,
			Dest:   size.Expand(pattern),
		})
	}
	return jobs
}

// ResizeMany resizes src to every size, substituting each size label into pattern.
// The returned slice has one entry per size, in the order of sizes.
func (p *ImageProcessor) ResizeMany(src string, sizes []SizeSpec, pattern string) []OperationResult {
	return p.RunJobs(p.Jobs(src, sizes, pattern))
}

// RunJobs starts every job without waiting for the previous one and returns
// once all have finished. A failed job never affects the others; its slot
// holds a failure result.
func (p *ImageProcessor) RunJobs(jobs []IconJob) []OperationResult {
	results := make([]OperationResult, len(jobs))

	var g errgroup.Group
	if p.Concurrency > 0 {
		g.SetLimit(p.Concurrency)
	}
	for i, job := range jobs {
		g.Go(func() error {
			results[i] = p.run(job)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (p *ImageProcessor) run(job IconJob) OperationResult {
	size := job.Size
	err := p.resize(job)
	if err != nil {
		p.logger.Error("✗ icon failed", "path", job.Dest, "size", size.String(), "error", err)
	} else {
		p.logger.Debug("✓ icon written", "path", job.Dest, "size", size.String())
	}
	return OperationResult{
		Size:       &size,
		Path:       job.Dest,
		Success:    err == nil,
		Err:        err,
		Annotation: job.Annotation,
	}
}
