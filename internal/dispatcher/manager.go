package dispatcher

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-skc/skc/internal/alert"
	"github.com/go-skc/skc/internal/cache"
	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/database"
	"github.com/go-skc/skc/internal/logging"
	"github.com/go-skc/skc/internal/observability"
	sampleDb "github.com/go-skc/skc/internal/sample/database"
	"github.com/go-skc/skc/internal/sample/model"
	"github.com/go-skc/skc/pkg/iqueue"
)

// Contract for returning the Manager instance
type ProvideFn func(alert.Manager, chan<- error) (Manager, error)

// The interface defines the behavior of the Manager instance with all available methods.
// This interface defines the behavior of the background service.
type Manager interface {
	CollectClassifier
	// Start method of the service
	Run(context.Context) error
	// Method for stopping the service
	Stop()
}

// Collector defines the behavior of the service for data storage
type Collector interface {
	// The method accepts data from outside and writes it to the queue
	Collect(in ...model.Sample) error
}

// The interface defines the behavior of the service only for classifications
type Classifier interface {
	// The method assigns a label to the transmitted data. A k of zero
	// selects the configured k of the dataset classifier.
	Classify(ctx context.Context, dataset string, in classifier.DataPoint, k int) (*classifier.Prediction, error)
}

// Aggregation interface for Collector and Classifier interfaces
type CollectClassifier interface {
	Collector
	Classifier
}

// Abstractions for getting dependencies
type (
	// function for getting all samples
	fetchSamplesFn func(context.Context, sampleDb.FilterFn) ([]model.Sample, error)
	// function for getting samples of one dataset
	fetchSamplesByDatasetFn func(string, sampleDb.FilterFn) ([]model.Sample, error)
	// function for deleting a sample
	deleteSampleFn func(context.Context, model.Sample) error
	// function for deleting multiple samples
	deleteSamplesFn func(context.Context, []model.Sample) error
	// function to add sets of samples
	appendSamplesFn func(context.Context, []model.Sample) error
	// function for getting all dataset names
	fetchKeysFn func() ([]string, error)
	// number of samples by dataset
	countByDatasetFn func(string) (int, error)
)

// General structure for aggregation of dependency pulling functions
type pullDependencies struct {
	fetchSamples          fetchSamplesFn
	fetchSamplesByDataset fetchSamplesByDatasetFn
	deleteSample          deleteSampleFn
	deleteSamples         deleteSamplesFn
	appendSamples         appendSamplesFn
	fetchKeys             fetchKeysFn
	countByDataset        countByDatasetFn
}

type Options struct {
	skipItems            int
	maxItemsStored       int
	maxStorageTime       time.Duration
	allowAppendData      bool
	allowAppendPredicted bool
	dbFlushTime          time.Duration
	dbFlushSize          int
	rebuildDBTime        time.Duration
	deps                 pullDependencies
}

type Option func(*manager)

func WithDBFlushTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.dbFlushTime = t
	}
}

func WithDBFlushSize(n int) Option {
	return func(o *manager) {
		o.opts.dbFlushSize = n
	}
}

func WithRebuildDBTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.rebuildDBTime = t
	}
}

func WithSkipItems(n int) Option {
	return func(o *manager) {
		o.opts.skipItems = n
	}
}

func WithMaxItemsStored(n int) Option {
	return func(o *manager) {
		o.opts.maxItemsStored = n
	}
}

func WithMaxStorageTime(t time.Duration) Option {
	return func(o *manager) {
		o.opts.maxStorageTime = t
	}
}

func WithAllowAppendData(t bool) Option {
	return func(o *manager) {
		o.opts.allowAppendData = t
	}
}

// WithAllowAppendPredicted lets classified samples re-enter the training set
// under their predicted label. Off unless explicitly enabled.
func WithAllowAppendPredicted(t bool) Option {
	return func(o *manager) {
		o.opts.allowAppendPredicted = t
	}
}

func WithCache(c *cache.Cache) Option {
	return func(o *manager) {
		o.cache = c
	}
}

// New return manager
func New(
	db *database.DB,
	provideClassifierFn classifier.ProvideFn,
	notifier alert.Manager,
	shutdownCh chan<- error,
	opts ...Option,
) (*manager, error) {
	if notifier == nil {
		return nil, fmt.Errorf("notifier instance is not created")
	}

	if provideClassifierFn == nil {
		return nil, fmt.Errorf("classifier instance is not created")
	}

	d := &manager{
		sampleDB:            sampleDb.New(db),
		collectCh:           make(chan model.Sample, 1),
		shutDownCh:          shutdownCh,
		classifierProvideFn: provideClassifierFn,
		classifiers:         map[string]classifier.Classifier{},
		queue:               map[string]*iqueue.Queue{},
		notifier:            notifier,
	}
	d.opts.allowAppendData = true

	for _, f := range opts {
		f(d)
	}

	// structure containing functions for getting and adding samples
	d.opts.deps = pullDependencies{
		fetchSamples:          d.sampleDB.FindAll,
		fetchSamplesByDataset: d.sampleDB.FindByDataset,
		deleteSample:          d.sampleDB.Delete,
		deleteSamples:         d.sampleDB.DeleteMany,
		appendSamples:         d.sampleDB.AppendMany,
		fetchKeys:             d.sampleDB.Keys,
		countByDataset:        d.sampleDB.CountByDataset,
	}

	d.dbScheduler = newDBScheduler(dbSchedulerConfig{
		maxItemsStored: d.opts.maxItemsStored,
		maxStorageTime: d.opts.maxStorageTime,
		rebuildDBTime:  d.opts.rebuildDBTime,
	})

	d.dbTxExecutor = newDBTxExecutor(
		dbTxExecutorOptions{
			dbFlushTime: d.opts.dbFlushTime,
			dbFlushSize: d.opts.dbFlushSize,
		},
		shutdownCh,
	)

	return d, nil
}

// The main structure of SKC.
// Describes the queue management structure, calls classification notification
// functions, and stores the dataset classifiers.
type manager struct {
	mtx sync.RWMutex

	// Manager options
	opts Options
	// Main sample storage
	sampleDB *sampleDb.DB
	// The notification manager
	notifier alert.Manager
	// Optional prediction cache, nil when disabled
	cache *cache.Cache
	// The transaction manager in the store
	dbTxExecutor *dbTxExecutor
	// Managing data in storage
	dbScheduler *dbScheduler

	// Queue for new data to be processed
	queue map[string]*iqueue.Queue
	// New data channel for processing
	collectCh chan model.Sample
	// Channel to shutdown the application
	shutDownCh chan<- error

	closed bool
	// The factory returns an instance of the classifier
	classifierProvideFn classifier.ProvideFn
	// Created classifiers
	classifiers map[string]classifier.Classifier

	// cancellation
	cancelNotifier func()
	cancel         func()
}

// The Run method starts the main data collection and classification functions
func (d *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel
	c, cancel := context.WithCancel(context.Background())
	d.cancelNotifier = cancel

	go d.collector(ctx)
	go d.dbTxExecutor.flusher(ctx, d.opts.deps.appendSamples)
	go d.dbScheduler.schedule(
		ctx,
		d.opts.deps.fetchKeys,
		d.opts.deps.countByDataset,
		d.opts.deps.fetchSamplesByDataset,
		d.opts.deps.deleteSamples,
	)

	// Loading data from storage to memory
	if err := d.bulkLoad(ctx); err != nil {
		return fmt.Errorf("can not start dispatcher manager: %w", err)
	}
	// Launching the notification service
	if err := d.notifier.Run(c); err != nil {
		return fmt.Errorf("alert.Run: %w", err)
	}

	return nil
}

// Stop the manager
func (d *manager) Stop() {
	d.cancel()
}

// Classify returns the label assigned to the transmitted data by the dataset
// classifier
func (d *manager) Classify(
	ctx context.Context,
	dataset string,
	data classifier.DataPoint,
	k int,
) (*classifier.Prediction, error) {
	logger := logging.FromContext(ctx)
	d.mtx.Lock()
	if d.closed {
		d.mtx.Unlock()
		return nil, fmt.Errorf("error to classify, shutting down")
	}
	// If the classifier instance does not exist we return a new one from the factory
	datasetClassifier, ok := d.classifiers[dataset]
	if !ok {
		newClassifier, err := d.classifierProvideFn()
		if err != nil {
			d.mtx.Unlock()
			return nil, fmt.Errorf("can not create classifier instance: %w", err)
		}
		datasetClassifier = newClassifier
		d.classifiers[dataset] = newClassifier
	}
	d.mtx.Unlock()

	started := time.Now()
	if d.cache != nil && k >= 0 {
		result, hit, err := d.cache.Lookup(ctx, dataset, k, data.Vector())
		if err != nil {
			logger.Warnf("prediction cache lookup: %v", err)
		} else if hit {
			observability.RecordCacheHit(ctx, dataset)
			observability.RecordClassification(ctx, dataset, time.Since(started), nil)
			return result, nil
		}
	}

	result, err := d.predict(datasetClassifier, data, k)
	observability.RecordClassification(ctx, dataset, time.Since(started), err)
	if err != nil {
		return nil, err
	}

	if d.cache != nil && k >= 0 {
		if err := d.cache.Store(ctx, dataset, k, data.Vector(), result); err != nil {
			logger.Warnf("prediction cache store: %v", err)
		}
	}
	return result, nil
}

// predict resolves the k convention. Zero selects the configured k of the
// classifier, negative values surface its invalid k error.
func (d *manager) predict(clf classifier.Classifier, data classifier.DataPoint, k int) (*classifier.Prediction, error) {
	if k == 0 {
		return clf.Predict(data.Vector())
	}
	return clf.PredictK(data.Vector(), k)
}

// Collect adds data to the feed for saving to the queue
func (d *manager) Collect(data ...model.Sample) error {
	d.mtx.RLock()
	if d.closed {
		d.mtx.RUnlock()
		return fmt.Errorf("error send to collect, shutting down")
	}
	for i := range data {
		d.collectCh <- data[i]
	}
	d.mtx.RUnlock()
	return nil
}

// bulkLoad loading data from storage to memory
func (d *manager) bulkLoad(ctx context.Context) error {
	var newSamples []model.Sample

	// getting all samples that are in the storage
	data, err := d.opts.deps.fetchSamples(ctx, nil)
	if err != nil {
		return fmt.Errorf("error fetching all samples: %w", err)
	}

	processedSamples := map[string][]classifier.DataPoint{}
	for i := range data {
		dat := data[i]
		if _, ok := processedSamples[dat.Dataset]; !ok {
			processedSamples[dat.Dataset] = []classifier.DataPoint{}
		}
		// divide samples by the statuses "processed" and "new".
		// Only labeled samples rebuild the training set, processed
		// unlabeled ones are kept as history
		if dat.IsProcessed() && dat.Labeled() {
			processedSamples[dat.Dataset] = append(processedSamples[dat.Dataset], dat)
		}
		if dat.IsNew() {
			newSamples = append(newSamples, dat)
		}
	}

	for k, list := range processedSamples {
		loadClassifier, ok := d.classifiers[k]
		if !ok {
			newClassifier, err := d.classifierProvideFn()
			if err != nil {
				return fmt.Errorf("can not create classifier instance: %w", err)
			}
			d.classifiers[k] = newClassifier
			loadClassifier = newClassifier
		}
		// bulk load data to the classifier
		loadClassifier.Build(list...)
	}
	// samples with the "new" status are sent to the queue for processing
	for i := range newSamples {
		d.collectCh <- newSamples[i]
	}

	return nil
}

func (d *manager) process(ctx context.Context, sample model.Sample) error {
	d.mtx.RLock()
	datasetClassifier, ok := d.classifiers[sample.Dataset]
	d.mtx.RUnlock()

	if !ok {
		newClassifier, err := d.classifierProvideFn()
		if err != nil {
			return fmt.Errorf("can not create classifier instance: %w", err)
		}
		datasetClassifier = newClassifier
		d.mtx.Lock()
		d.classifiers[sample.Dataset] = newClassifier
		d.mtx.Unlock()
	}

	if sample.Labeled() {
		return d.processLabeled(ctx, datasetClassifier, sample)
	}
	return d.processUnlabeled(ctx, datasetClassifier, sample)
}

// processLabeled stores a training sample and appends it to the dataset
// classifier
func (d *manager) processLabeled(ctx context.Context, clf classifier.Classifier, sample model.Sample) error {
	logger := logging.FromContext(ctx)
	sample.Status = model.StatusProcessed
	d.dbTxExecutor.write(ctx, sample, d.opts.deps.appendSamples)
	clf.Append(&sample)
	if d.cache != nil {
		if err := d.cache.Invalidate(ctx, sample.Dataset); err != nil {
			logger.Warnf("prediction cache invalidate: %v", err)
		}
	}
	return nil
}

// processUnlabeled classifies an incoming sample. Samples arriving before the
// training set reaches the configured size keep the "new" status and are
// replayed on the next start.
func (d *manager) processUnlabeled(ctx context.Context, clf classifier.Classifier, sample model.Sample) error {
	logger := logging.FromContext(ctx)

	if clf.Len() < d.opts.skipItems || clf.Len() < 1 {
		sample.Status = model.StatusNew
		d.dbTxExecutor.write(ctx, sample, d.opts.deps.appendSamples)
		return nil
	}

	sample.Status = model.StatusNew
	d.dbTxExecutor.write(ctx, sample, d.opts.deps.appendSamples)

	started := time.Now()
	result, predictErr := clf.Predict(sample.Vector())
	observability.RecordClassification(ctx, sample.Dataset, time.Since(started), predictErr)
	if predictErr != nil {
		if err := d.opts.deps.deleteSample(context.Background(), sample); err != nil {
			return fmt.Errorf("unable classify: %w", err)
		}
		return fmt.Errorf("unable classify: %w", predictErr)
	}

	sample.Predicted = result.Label
	sample.Confidence = result.Confidence
	logger.Debugf("classified sample %s of dataset %s as %s", sample.ID, sample.Dataset, result.Label)

	d.alert(sample)

	if !d.opts.allowAppendData {
		if err := d.opts.deps.deleteSample(ctx, sample); err != nil {
			return fmt.Errorf("delete transaction error: %w", err)
		}
		return nil
	}

	if d.opts.allowAppendPredicted {
		sample.Class = result.Label
		clf.Append(&sample)
		if d.cache != nil {
			if err := d.cache.Invalidate(ctx, sample.Dataset); err != nil {
				logger.Warnf("prediction cache invalidate: %v", err)
			}
		}
	}

	sample.Status = model.StatusProcessed

	d.dbTxExecutor.write(ctx, sample, d.opts.deps.appendSamples)

	return nil
}

func (d *manager) alert(in ...model.Sample) {
	d.mtx.RLock()
	if !d.closed {
		d.mtx.RUnlock()
		d.notifier.Notify(in...)
		return
	}
	d.mtx.RUnlock()
}

func (d *manager) shutdown(ctx context.Context, q *iqueue.Queue) error {
	for {
		in, ok := q.PopFront()
		if !ok {
			if !d.recvShutdown() {
				return fmt.Errorf("dispatcher shutdown: closed num receivers not equal created")
			}
			d.cancelNotifier()
			break
		}

		if err := d.process(ctx, in.(model.Sample)); err != nil {
			return fmt.Errorf("dispatcher shutdown: unable processed data: %w", err)
		}
	}
	return nil
}

func (d *manager) recvShutdown() bool {
	finishedNum, classifiersNum := 0, len(d.queue)
	for _, q := range d.queue {
		if q.Len() == 0 {
			finishedNum += 1
		}
	}

	return finishedNum == classifiersNum
}

func (d *manager) receive(ctx context.Context, q *iqueue.Queue) {
	logger := logging.FromContext(ctx)
	defer func() {
		d.shutDownCh <- d.shutdown(ctx, q)
	}()

	for {
		select {
		case recv := <-q.Receive():
			if err := d.process(ctx, recv.(model.Sample)); err != nil {
				logger.Errorf("unable processed data: %v", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

const workerMul = 2

func (d *manager) worker(ctx context.Context, queue *iqueue.Queue, num int) {
	for i := 0; i < num; i++ {
		go d.receive(ctx, queue)
	}
}

func (d *manager) collector(ctx context.Context) {
	defer close(d.collectCh)
	for {
		select {
		case in := <-d.collectCh:
			q, ok := d.queue[in.Dataset]
			if !ok {
				queue := iqueue.New()
				go queue.Loop()
				d.worker(ctx, queue, runtime.NumCPU()*workerMul)
				d.queue[in.Dataset] = queue
				q = queue
			}
			q.Send(in)
		case <-ctx.Done():
			d.mtx.Lock()
			d.closed = true
			d.mtx.Unlock()
			return
		}
	}
}
