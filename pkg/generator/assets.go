package generator

// runtimeSource is the transport helper generated once per spec. Every
// requests file imports request() from it, so the generated client has no
// runtime dependency beyond fetch itself.
const runtimeSource = `export interface RequestConfig {
  method: string;
  path: string;
  query?: Record<string, unknown>;
  body?: unknown;
}

export interface RuntimeOptions {
  baseUrl?: string;
  headers?: Record<string, string>;
  fetch?: typeof fetch;
}

let runtime: RuntimeOptions = {};

export function configure(options: RuntimeOptions): void {
  runtime = { ...runtime, ...options };
}

function buildUrl(path: string, query?: Record<string, unknown>): string {
  const base = runtime.baseUrl ?? '';
  const url = new URL(base + path, base ? undefined : 'http://localhost');
  if (query) {
    for (const [key, value] of Object.entries(query)) {
      if (value === undefined || value === null) continue;
      url.searchParams.set(key, String(value));
    }
  }
  return runtime.baseUrl ? url.toString() : url.pathname + url.search;
}

export async function request<T>(config: RequestConfig): Promise<T> {
  const doFetch = runtime.fetch ?? fetch;
  const response = await doFetch(buildUrl(config.path, config.query), {
    method: config.method,
    headers: {
      'Content-Type': 'application/json',
      ...runtime.headers,
    },
    body: config.body === undefined ? undefined : JSON.stringify(config.body),
  });
  if (!response.ok) {
    throw new Error('request failed: ' + response.status + ' ' + config.method + ' ' + config.path);
  }
  if (response.status === 204) {
    return undefined as T;
  }
  return (await response.json()) as T;
}`
