// Package lingo implements the request-orchestration core of a
// network-facing translation service.
//
// A Pipeline validates incoming requests, consults a best-effort translation
// cache, normalizes text, resolves a translation engine for the requested
// language pair through a lazily-loading model registry, and caches the
// result. The neural engine itself is opaque: the core only depends on the
// capability to turn text into translated text.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/vireolabs/lingo"
//	    "github.com/vireolabs/lingo/cache"
//	    "github.com/vireolabs/lingo/engine"
//	    "github.com/vireolabs/lingo/registry"
//	)
//
//	func main() {
//	    catalog := lingo.DefaultCatalog()
//	    loader := engine.NewOpenAILoader(engine.OpenAIConfig{
//	        APIKey:  os.Getenv("ENGINE_API_KEY"),
//	        BaseURL: os.Getenv("ENGINE_BASE_URL"),
//	    })
//	    reg := registry.New(catalog, loader)
//	    defer reg.Close()
//
//	    pipe := lingo.New(catalog, reg,
//	        lingo.WithCache(cache.NewRedisStore(cache.RedisConfig{URL: "redis://localhost:6379/1"})),
//	    )
//
//	    result, err := pipe.Translate(context.Background(), lingo.TranslationRequest{
//	        Text:   "Hello, how are you?",
//	        Source: "en",
//	        Target: "hi",
//	    })
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.TranslatedText, result.FromCache)
//	}
package lingo
