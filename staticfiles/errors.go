package staticfiles

// páginas de erro no formato clássico do servidor

const notFoundBody = `<!DOCTYPE html>
<html>
<head>
    <title>404 Not Found</title>
</head>
<body>
    <h1>404 Not Found</h1>
    <p>The requested page does not exist.</p>
    <a href="/">Return to homepage</a>
</body>
</html>
`

const forbiddenBody = `<!DOCTYPE html>
<html>
<head>
    <title>403 Forbidden</title>
</head>
<body>
    <h1>403 Forbidden</h1>
    <p>This directory cannot be listed.</p>
</body>
</html>
`
