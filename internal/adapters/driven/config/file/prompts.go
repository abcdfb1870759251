package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/contexta-ai/contexta/internal/core/ports/driven"
	"github.com/contexta-ai/contexta/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error

	watcher  *fsnotify.Watcher
	stopOnce sync.Once
	stopChan chan struct{}
}

// defaultPrompts contains embedded default prompts.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptQASystem: `You are an AI assistant specialised in answering questions based on the documents provided.

Your responsibilities:
1. Carefully analyse the provided context
2. Answer only from the information available in the documents
3. Be accurate, clear and concise in your answers
4. State clearly when the information is not available in the context
5. Cite the relevant documents where appropriate

Important principles:
- Do NOT invent information that is not in the documents
- If the answer is not in the context, say so clearly
- Keep a professional and helpful tone
- Structure your answer in a clear and organised way`,

	driven.PromptFollowupSystem: `You are an AI assistant specialised in answering questions based on the documents provided.

Your responsibilities:
1. Carefully analyse the provided context
2. Answer only from the information available in the documents
3. Be accurate, clear and concise in your answers
4. State clearly when the information is not available in the context
5. Cite the relevant documents where appropriate

Important principles:
- Do NOT invent information that is not in the documents
- If the answer is not in the context, say so clearly
- Keep a professional and helpful tone
- Structure your answer in a clear and organised way

CONVERSATION CONTEXT:
This is a follow-up question in an existing conversation. Stay coherent with the previous answer while providing new information based on the updated context.`,

	driven.PromptUserFooter: `Please answer the question based only on the context provided above. If the information is not available in the documents, state this clearly.`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.contexta/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".contexta", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
		stopChan:  make(chan struct{}),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Watch starts watching the prompt directory and clears the cache when a
// prompt file changes, so edits take effect without a restart.
// Call Close to stop watching.
func (s *PromptStore) Watch() error {
	// Directory must exist before it can be watched.
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		return s.initErr
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create prompt watcher: %w", err)
	}

	if err := watcher.Add(s.promptDir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch prompt directory: %w", err)
	}

	s.watcher = watcher
	go s.watchLoop()
	logger.Debug("Watching prompt directory: %s", s.promptDir)
	return nil
}

// watchLoop reloads the cache when prompt files are written or removed.
func (s *PromptStore) watchLoop() {
	for {
		select {
		case <-s.stopChan:
			return
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".txt" {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logger.Debug("Prompt file changed: %s", event.Name)
				s.Reload()
			}
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("Prompt watcher error: %v", err)
		}
	}
}

// Close stops the directory watcher if one was started.
func (s *PromptStore) Close() error {
	var err error
	s.stopOnce.Do(func() {
		close(s.stopChan)
		if s.watcher != nil {
			err = s.watcher.Close()
		}
	})
	return err
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Contexta Prompts

This directory contains customisable prompts used by Contexta's answer pipeline.

## Files

- ` + "`qa_system.txt`" + ` - System prompt for grounded question answering
- ` + "`followup_system.txt`" + ` - System prompt for follow-up questions
- ` + "`user_footer.txt`" + ` - Closing instructions appended to the user message

## Customisation

Edit any file to customise model behaviour. Changes take effect on the next
question when directory watching is enabled, or after restarting otherwise.

None of these prompts use format placeholders; the context and question are
inserted by the application, not by template substitution.
`
	return os.WriteFile(path, []byte(content), 0600)
}
